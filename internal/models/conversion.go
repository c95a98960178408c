package models

import (
	"fmt"
	"time"
)

// UnitConversion represents a multiplicative conversion between two units.
// A row with an ItemID applies to that item only and wins over the
// business-wide default row for the same unit pair.
type UnitConversion struct {
	ID         string    `gorm:"primary_key" json:"id"`
	BusinessID string    `gorm:"index" json:"business_id"`
	FromUnit   string    `json:"from_unit"`
	ToUnit     string    `json:"to_unit"`
	Factor     float64   `json:"factor"`
	ItemID     string    `gorm:"index" json:"item_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name for UnitConversion
func (UnitConversion) TableName() string {
	return "unit_conversions"
}

// ValidateUnitConversion validates a unit conversion before it is stored
func ValidateUnitConversion(cv *UnitConversion) error {
	if cv.FromUnit == "" || cv.ToUnit == "" {
		return fmt.Errorf("conversion needs both a from unit and a to unit")
	}
	if cv.FromUnit == cv.ToUnit {
		return fmt.Errorf("conversion between identical units is implicit")
	}
	if cv.Factor <= 0 {
		return fmt.Errorf("conversion factor must be greater than 0")
	}
	return nil
}
