package models

import "time"

// BusinessSettings represents the per-business figures that feed labour and
// overhead allocation: one row per business
type BusinessSettings struct {
	BusinessID               string    `gorm:"primary_key" json:"business_id"`
	TotalMonthlySalary       float64   `json:"total_monthly_salary"`
	WorkingDaysPerMonth      float64   `json:"working_days_per_month"`
	WorkingHoursPerDay       float64   `json:"working_hours_per_day"`
	VariableOverheadPerMonth float64   `json:"variable_overhead_per_month"`
	FixedOverheadPerMonth    float64   `json:"fixed_overhead_per_month"`
	MonthlyDishVolume        float64   `json:"monthly_dish_volume"`
	TargetFoodCostPercent    float64   `json:"target_food_cost_percent"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// TableName sets the table name for BusinessSettings
func (BusinessSettings) TableName() string {
	return "business_settings"
}

// DefaultBusinessSettings returns the settings used before a business has
// configured its own. Labour and overhead figures start at zero so those
// cost lines stay zero until real numbers exist.
func DefaultBusinessSettings(businessID string) *BusinessSettings {
	return &BusinessSettings{
		BusinessID:            businessID,
		TargetFoodCostPercent: 30,
	}
}
