package models

import (
	"fmt"
	"time"
)

// InventoryItem represents a purchasable ingredient and what it costs per unit
type InventoryItem struct {
	ID              string    `gorm:"primary_key" json:"id"`
	BusinessID      string    `gorm:"index" json:"business_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Unit            string    `json:"unit"`
	UnitCost        float64   `json:"unit_cost"`
	YieldPercentage float64   `json:"yield_percentage,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// ValidateInventoryItem validates an inventory item before it is stored
func ValidateInventoryItem(item *InventoryItem) error {
	if item.Name == "" {
		return fmt.Errorf("inventory item name is required")
	}
	if item.Unit == "" {
		return fmt.Errorf("inventory item unit is required")
	}
	if item.UnitCost < 0 {
		return fmt.Errorf("inventory item unit cost cannot be negative")
	}
	if item.YieldPercentage < 0 || item.YieldPercentage > 100 {
		return fmt.Errorf("inventory item yield percentage must be between 0 and 100")
	}
	return nil
}

// InventoryCategory represents the category of an inventory item
type InventoryCategory string

const (
	// Inventory categories
	CategoryProtein     InventoryCategory = "protein"
	CategoryProduce     InventoryCategory = "produce"
	CategoryDairy       InventoryCategory = "dairy"
	CategoryDryGoods    InventoryCategory = "dry_goods"
	CategorySpices      InventoryCategory = "spices"
	CategoryCondiments  InventoryCategory = "condiments"
	CategoryBeverages   InventoryCategory = "beverages"
	CategoryPackaging   InventoryCategory = "packaging"
	CategoryDisposables InventoryCategory = "disposables"
)

// InventoryUnit represents the unit of measurement for an inventory item
type InventoryUnit string

const (
	// Weight units
	UnitGram     InventoryUnit = "g"
	UnitKilogram InventoryUnit = "kg"
	UnitOunce    InventoryUnit = "oz"
	UnitPound    InventoryUnit = "lb"

	// Volume units
	UnitMilliliter InventoryUnit = "ml"
	UnitLiter      InventoryUnit = "l"
	UnitFluidOunce InventoryUnit = "fl_oz"
	UnitGallon     InventoryUnit = "gal"

	// Count units
	UnitPiece     InventoryUnit = "pc"
	UnitDozen     InventoryUnit = "dozen"
	UnitBox       InventoryUnit = "box"
	UnitContainer InventoryUnit = "container"
)
