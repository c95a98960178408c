package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"mise/internal/costing"
	"mise/internal/models"
)

// Sentinel errors the API layer maps onto HTTP statuses.
var (
	ErrNotFound   = errors.New("not found")
	ErrReferenced = errors.New("still referenced by a recipe")
)

// Store persists costing entities and assembles the snapshots the engine
// reads. All lookups are scoped to one business.
type Store struct {
	db *gorm.DB
}

// New creates a store over an open database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Inventory items

// CreateInventoryItem stores a new inventory item, generating an id when the
// caller didn't bring one
func (s *Store) CreateInventoryItem(item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return s.db.Create(item).Error
}

// GetInventoryItem returns one inventory item
func (s *Store) GetInventoryItem(businessID, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.Where("business_id = ? AND id = ?", businessID, id).First(&item).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListInventoryItems returns a business's inventory, sorted by name
func (s *Store) ListInventoryItems(businessID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.Where("business_id = ?", businessID).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateInventoryItem saves changes to an existing inventory item
func (s *Store) UpdateInventoryItem(item *models.InventoryItem) error {
	return s.db.Save(item).Error
}

// DeleteInventoryItem removes an item unless a recipe still uses it
func (s *Store) DeleteInventoryItem(businessID, id string) error {
	referenced, err := s.referencedByRecipe(businessID, id, "")
	if err != nil {
		return err
	}
	if referenced {
		return ErrReferenced
	}
	res := s.db.Where("business_id = ? AND id = ?", businessID, id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recipes

// CreateRecipe stores a new recipe with its ingredient lines serialized
func (s *Store) CreateRecipe(rec *models.Recipe) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if err := rec.SetIngredients(rec.Ingredients); err != nil {
		return fmt.Errorf("serialize ingredients: %w", err)
	}
	if err := rec.SetCostHistory(rec.CostHistory); err != nil {
		return fmt.Errorf("serialize cost history: %w", err)
	}
	return s.db.Create(rec).Error
}

// GetRecipe returns one recipe with ingredient lines and history populated
func (s *Store) GetRecipe(businessID, id string) (*models.Recipe, error) {
	var rec models.Recipe
	err := s.db.Where("business_id = ? AND id = ?", businessID, id).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := hydrate(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecipes returns a business's recipes, hydrated and sorted by name
func (s *Store) ListRecipes(businessID string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Where("business_id = ?", businessID).Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	for i := range recipes {
		if err := hydrate(&recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

// UpdateRecipe saves changes to an existing recipe
func (s *Store) UpdateRecipe(rec *models.Recipe) error {
	if err := rec.SetIngredients(rec.Ingredients); err != nil {
		return fmt.Errorf("serialize ingredients: %w", err)
	}
	if err := rec.SetCostHistory(rec.CostHistory); err != nil {
		return fmt.Errorf("serialize cost history: %w", err)
	}
	return s.db.Save(rec).Error
}

// DeleteRecipe removes a recipe unless another recipe still uses it as a
// sub-recipe
func (s *Store) DeleteRecipe(businessID, id string) error {
	referenced, err := s.referencedByRecipe(businessID, id, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrReferenced
	}
	res := s.db.Where("business_id = ? AND id = ?", businessID, id).Delete(&models.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveCostHistory persists just the recipe's cost history column
func (s *Store) SaveCostHistory(rec *models.Recipe) error {
	if err := rec.SetCostHistory(rec.CostHistory); err != nil {
		return fmt.Errorf("serialize cost history: %w", err)
	}
	return s.db.Model(&models.Recipe{}).
		Where("business_id = ? AND id = ?", rec.BusinessID, rec.ID).
		Update("cost_history_json", rec.CostHistoryJSON).Error
}

// Unit conversions

// CreateUnitConversion stores a new conversion rule
func (s *Store) CreateUnitConversion(cv *models.UnitConversion) error {
	if cv.ID == "" {
		cv.ID = uuid.New().String()
	}
	return s.db.Create(cv).Error
}

// ListUnitConversions returns a business's conversion rules
func (s *Store) ListUnitConversions(businessID string) ([]models.UnitConversion, error) {
	var conversions []models.UnitConversion
	if err := s.db.Where("business_id = ?", businessID).Find(&conversions).Error; err != nil {
		return nil, err
	}
	return conversions, nil
}

// DeleteUnitConversion removes a conversion rule
func (s *Store) DeleteUnitConversion(businessID, id string) error {
	res := s.db.Where("business_id = ? AND id = ?", businessID, id).Delete(&models.UnitConversion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Business settings

// GetSettings returns the business's settings, or defaults when it hasn't
// configured any yet
func (s *Store) GetSettings(businessID string) (*models.BusinessSettings, error) {
	var settings models.BusinessSettings
	err := s.db.Where("business_id = ?", businessID).First(&settings).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.DefaultBusinessSettings(businessID), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings upserts the single settings row for a business
func (s *Store) SaveSettings(settings *models.BusinessSettings) error {
	var existing models.BusinessSettings
	err := s.db.Where("business_id = ?", settings.BusinessID).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		return s.db.Create(settings).Error
	}
	if err != nil {
		return err
	}
	return s.db.Save(settings).Error
}

// Snapshot loads everything the engine needs for one business into an
// in-memory catalog, so a costing call sees one consistent view
func (s *Store) Snapshot(businessID string) (*costing.MemoryCatalog, error) {
	items, err := s.ListInventoryItems(businessID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	recipes, err := s.ListRecipes(businessID)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	conversions, err := s.ListUnitConversions(businessID)
	if err != nil {
		return nil, fmt.Errorf("load conversions: %w", err)
	}
	return costing.NewMemoryCatalog(items, recipes, conversions), nil
}

// referencedByRecipe reports whether any recipe line in the business points
// at the given id. excludeRecipeID skips the recipe being deleted so a
// self-reference can't block its own removal.
func (s *Store) referencedByRecipe(businessID, id, excludeRecipeID string) (bool, error) {
	recipes, err := s.ListRecipes(businessID)
	if err != nil {
		return false, err
	}
	for i := range recipes {
		if recipes[i].ID == excludeRecipeID {
			continue
		}
		for _, ing := range recipes[i].Ingredients {
			if ing.ItemID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func hydrate(rec *models.Recipe) error {
	if _, err := rec.GetIngredients(); err != nil {
		return fmt.Errorf("recipe %s: parse ingredients: %w", rec.ID, err)
	}
	if _, err := rec.GetCostHistory(); err != nil {
		return fmt.Errorf("recipe %s: parse cost history: %w", rec.ID, err)
	}
	return nil
}
