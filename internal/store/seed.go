package store

import (
	"fmt"

	"mise/internal/models"
)

// Seed loads a small demonstration dataset for a business: a pantry, the
// usual metric conversions, a dough batch recipe and a croissant recipe built
// on it, plus workable settings. It is idempotent; a business that already
// has inventory is left alone.
func (s *Store) Seed(businessID string) error {
	var count int64
	if err := s.db.Model(&models.InventoryItem{}).Where("business_id = ?", businessID).Count(&count).Error; err != nil {
		return fmt.Errorf("check existing inventory: %w", err)
	}
	if count > 0 {
		return nil
	}

	items := []models.InventoryItem{
		{ID: "flour", Name: "Flour", Category: string(models.CategoryDryGoods), Unit: string(models.UnitKilogram), UnitCost: 18},
		{ID: "butter", Name: "Butter", Category: string(models.CategoryDairy), Unit: string(models.UnitKilogram), UnitCost: 95},
		{ID: "yeast", Name: "Yeast", Category: string(models.CategoryDryGoods), Unit: string(models.UnitGram), UnitCost: 0.4},
		{ID: "salt", Name: "Salt", Category: string(models.CategorySpices), Unit: string(models.UnitKilogram), UnitCost: 6},
		{ID: "milk", Name: "Milk", Category: string(models.CategoryDairy), Unit: string(models.UnitLiter), UnitCost: 11},
		{ID: "egg", Name: "Egg", Category: string(models.CategoryProtein), Unit: string(models.UnitPiece), UnitCost: 2.5},
	}
	for i := range items {
		items[i].BusinessID = businessID
		if err := s.CreateInventoryItem(&items[i]); err != nil {
			return fmt.Errorf("seed inventory item %s: %w", items[i].Name, err)
		}
	}

	conversions := []models.UnitConversion{
		{FromUnit: "g", ToUnit: "kg", Factor: 0.001},
		{FromUnit: "ml", ToUnit: "l", Factor: 0.001},
		{FromUnit: "tbsp", ToUnit: "ml", Factor: 15},
		{FromUnit: "tsp", ToUnit: "ml", Factor: 5},
	}
	for i := range conversions {
		conversions[i].BusinessID = businessID
		if err := s.CreateUnitConversion(&conversions[i]); err != nil {
			return fmt.Errorf("seed conversion %s->%s: %w", conversions[i].FromUnit, conversions[i].ToUnit, err)
		}
	}

	dough := models.Recipe{
		ID:              "laminated-dough",
		BusinessID:      businessID,
		Name:            "Laminated Dough",
		Description:     "Batch of croissant dough, measured out by weight",
		Category:        "component",
		Servings:        1,
		ProductionYield: 5,
		ProductionUnit:  "kg",
		LabourMinutes:   90,
		Instructions: models.StringSlice{
			"Mix flour, milk, yeast and salt into a rough dough",
			"Laminate with butter over three folds",
			"Rest overnight",
		},
		Ingredients: []models.Ingredient{
			{Type: models.IngredientTypeItem, ItemID: "flour", Name: "Flour", Quantity: 2.5, Unit: "kg"},
			{Type: models.IngredientTypeItem, ItemID: "butter", Name: "Butter", Quantity: 1.2, Unit: "kg"},
			{Type: models.IngredientTypeItem, ItemID: "milk", Name: "Milk", Quantity: 1.1, Unit: "l"},
			{Type: models.IngredientTypeItem, ItemID: "yeast", Name: "Yeast", Quantity: 60, Unit: "g"},
			{Type: models.IngredientTypeItem, ItemID: "salt", Name: "Salt", Quantity: 50, Unit: "g"},
		},
	}
	croissant := models.Recipe{
		ID:                      "croissant",
		BusinessID:              businessID,
		Name:                    "Croissant",
		Description:             "House croissant, sold by the dozen",
		Category:                "pastry",
		Servings:                12,
		LabourMinutes:           6,
		PackagingCostPerServing: 0.6,
		WastageFactor:           5,
		Instructions: models.StringSlice{
			"Roll and cut the dough into triangles",
			"Shape, proof and egg-wash",
			"Bake at 195C for 18 minutes",
		},
		Ingredients: []models.Ingredient{
			{Type: models.IngredientTypeRecipe, ItemID: "laminated-dough", Name: "Laminated Dough", Quantity: 1000, Unit: "g"},
			{Type: models.IngredientTypeItem, ItemID: "egg", Name: "Egg", Quantity: 1, Unit: "pc"},
		},
	}
	for _, rec := range []models.Recipe{dough, croissant} {
		if err := s.CreateRecipe(&rec); err != nil {
			return fmt.Errorf("seed recipe %s: %w", rec.Name, err)
		}
	}

	settings := models.BusinessSettings{
		BusinessID:               businessID,
		TotalMonthlySalary:       52000,
		WorkingDaysPerMonth:      26,
		WorkingHoursPerDay:       10,
		VariableOverheadPerMonth: 9000,
		FixedOverheadPerMonth:    15000,
		MonthlyDishVolume:        6000,
		TargetFoodCostPercent:    30,
	}
	if err := s.SaveSettings(&settings); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
