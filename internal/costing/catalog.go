// Package costing implements the recipe cost calculation engine: unit
// conversion resolution, recursive ingredient costing with cycle detection,
// cost breakdown aggregation, cost history tracking and price suggestion.
// The engine performs no I/O; callers hand it entity snapshots through the
// Catalog interface and get numbers plus diagnostics back.
package costing

import (
	"mise/internal/models"
)

// Catalog supplies the entity snapshots a costing run reads. Implementations
// must return stable data for the duration of a call into the engine.
type Catalog interface {
	// InventoryItemByID returns the inventory item with the given id.
	InventoryItemByID(id string) (*models.InventoryItem, bool)
	// RecipeByID returns the recipe with the given id, ingredient lines
	// populated.
	RecipeByID(id string) (*models.Recipe, bool)
	// ConversionFactor returns the direct factor from fromUnit to toUnit,
	// preferring a conversion registered for itemID over the business-wide
	// default for the same unit pair.
	ConversionFactor(fromUnit, toUnit, itemID string) (float64, bool)
}

// MemoryCatalog is a Catalog over in-memory snapshots. The store builds one
// per costing request; tests build them directly.
type MemoryCatalog struct {
	items       map[string]*models.InventoryItem
	recipes     map[string]*models.Recipe
	conversions map[conversionKey]float64
}

type conversionKey struct {
	from   string
	to     string
	itemID string
}

// NewMemoryCatalog indexes the given snapshots for lookup by the engine.
func NewMemoryCatalog(items []models.InventoryItem, recipes []models.Recipe, conversions []models.UnitConversion) *MemoryCatalog {
	c := &MemoryCatalog{
		items:       make(map[string]*models.InventoryItem, len(items)),
		recipes:     make(map[string]*models.Recipe, len(recipes)),
		conversions: make(map[conversionKey]float64, len(conversions)),
	}
	for i := range items {
		c.items[items[i].ID] = &items[i]
	}
	for i := range recipes {
		rec := &recipes[i]
		rec.GetIngredients() // hydrate from the JSON column when needed
		c.recipes[rec.ID] = rec
	}
	for _, cv := range conversions {
		key := conversionKey{normalizeUnit(cv.FromUnit), normalizeUnit(cv.ToUnit), cv.ItemID}
		c.conversions[key] = cv.Factor
	}
	return c
}

// InventoryItemByID returns the inventory item with the given id.
func (c *MemoryCatalog) InventoryItemByID(id string) (*models.InventoryItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// RecipeByID returns the recipe with the given id.
func (c *MemoryCatalog) RecipeByID(id string) (*models.Recipe, bool) {
	rec, ok := c.recipes[id]
	return rec, ok
}

// ConversionFactor looks up a direct conversion, item-specific rows first.
func (c *MemoryCatalog) ConversionFactor(fromUnit, toUnit, itemID string) (float64, bool) {
	from, to := normalizeUnit(fromUnit), normalizeUnit(toUnit)
	if itemID != "" {
		if f, ok := c.conversions[conversionKey{from, to, itemID}]; ok {
			return f, true
		}
	}
	f, ok := c.conversions[conversionKey{from, to, ""}]
	return f, ok
}
