package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// IngredientType distinguishes raw inventory lines from sub-recipe lines
type IngredientType string

const (
	IngredientTypeItem   IngredientType = "item"
	IngredientTypeRecipe IngredientType = "recipe"
)

// Ingredient represents one line of a recipe: a quantity of an inventory
// item or of another recipe's output
type Ingredient struct {
	Type            IngredientType `json:"type"`
	ItemID          string         `json:"item_id"`
	Name            string         `json:"name,omitempty"`
	Quantity        float64        `json:"quantity"`
	Unit            string         `json:"unit"`
	YieldPercentage float64        `json:"yield_percentage,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// CostSnapshot represents one recorded cost of a recipe at a point in time
type CostSnapshot struct {
	Date time.Time `json:"date"`
	Cost float64   `json:"cost"`
}

// Recipe represents a costed recipe: its ingredient lines plus the labour,
// overhead, packaging and wastage inputs that feed the cost breakdown
type Recipe struct {
	ID                      string      `gorm:"primary_key" json:"id"`
	BusinessID              string      `gorm:"index" json:"business_id"`
	Name                    string      `json:"name"`
	Description             string      `json:"description,omitempty"`
	Category                string      `json:"category,omitempty"`
	Servings                int         `json:"servings"`
	IngredientsJSON         string      `gorm:"type:text" json:"-"`
	Instructions            StringSlice `gorm:"type:text" json:"instructions,omitempty"`
	ProductionYield         float64     `json:"production_yield,omitempty"`
	ProductionUnit          string      `json:"production_unit,omitempty"`
	LabourMinutes           float64     `json:"labour_minutes,omitempty"`
	UseCustomLabourCost     bool        `json:"use_custom_labour_cost,omitempty"`
	CustomMonthlySalary     float64     `json:"custom_monthly_salary,omitempty"`
	CustomWorkingDays       float64     `json:"custom_working_days,omitempty"`
	CustomWorkingHours      float64     `json:"custom_working_hours,omitempty"`
	PackagingCostPerServing float64     `json:"packaging_cost_per_serving,omitempty"`
	WastageFactor           float64     `json:"wastage_factor,omitempty"`
	CostHistoryJSON         string      `gorm:"type:text" json:"-"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
	// Transient fields (ignored by GORM)
	Ingredients []Ingredient   `gorm:"-" json:"ingredients"`
	CostHistory []CostSnapshot `gorm:"-" json:"cost_history,omitempty"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// GetIngredients returns the deserialized ingredient lines
func (r *Recipe) GetIngredients() ([]Ingredient, error) {
	if len(r.Ingredients) > 0 {
		return r.Ingredients, nil
	}
	var ingredients []Ingredient
	if r.IngredientsJSON == "" {
		return ingredients, nil
	}
	if err := json.Unmarshal([]byte(r.IngredientsJSON), &ingredients); err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return ingredients, nil
}

// SetIngredients serializes the ingredient lines for storage
func (r *Recipe) SetIngredients(ingredients []Ingredient) error {
	data, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}
	r.IngredientsJSON = string(data)
	r.Ingredients = ingredients
	return nil
}

// GetCostHistory returns the deserialized cost snapshots, oldest first
func (r *Recipe) GetCostHistory() ([]CostSnapshot, error) {
	if len(r.CostHistory) > 0 {
		return r.CostHistory, nil
	}
	var history []CostSnapshot
	if r.CostHistoryJSON == "" {
		return history, nil
	}
	if err := json.Unmarshal([]byte(r.CostHistoryJSON), &history); err != nil {
		return nil, err
	}
	r.CostHistory = history
	return history, nil
}

// SetCostHistory serializes the cost snapshots for storage
func (r *Recipe) SetCostHistory(history []CostSnapshot) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	r.CostHistoryJSON = string(data)
	r.CostHistory = history
	return nil
}

// ValidateRecipe validates a recipe before it is stored
func ValidateRecipe(r *Recipe) error {
	if r.Name == "" {
		return fmt.Errorf("recipe name is required")
	}
	if r.Servings < 0 {
		return fmt.Errorf("recipe servings cannot be negative")
	}
	if r.ProductionYield < 0 {
		return fmt.Errorf("recipe production yield cannot be negative")
	}
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		if ing.ItemID == "" {
			return fmt.Errorf("ingredient %d: item id is required", i)
		}
		if ing.Quantity <= 0 {
			return fmt.Errorf("ingredient %d: quantity must be greater than 0", i)
		}
		switch ing.Type {
		case "", IngredientTypeItem, IngredientTypeRecipe:
		default:
			return fmt.Errorf("ingredient %d: unknown type %q", i, ing.Type)
		}
	}
	return nil
}
