package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mise/internal/costing"
	"mise/internal/database"
	"mise/internal/feed"
	"mise/internal/models"
	"mise/internal/monitoring"
	"mise/internal/store"
)

func newTestAPI(t *testing.T) *CostingAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	return NewCostingAPI(store.New(db), monitoring.NewMetricsCollector(), monitoring.NewMonitor(), feed.NewHub())
}

// performAs sends a JSON request through the router for one business
func performAs(t *testing.T, api *CostingAPI, business, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if business != "" {
		req.Header.Set("X-Business-ID", business)
	}

	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	return w
}

// perform sends a JSON request scoped to the default business
func perform(t *testing.T, api *CostingAPI, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return performAs(t, api, "", method, path, body)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// createBreadRecipe stores a flour item and a bread recipe using 10 kg of it
// across 500 servings, and returns both generated ids
func createBreadRecipe(t *testing.T, api *CostingAPI) (itemID, recipeID string) {
	t.Helper()

	w := perform(t, api, http.MethodPost, "/api/v1/items", models.InventoryItem{
		Name:     "Flour",
		Category: "dry_goods",
		Unit:     "kg",
		UnitCost: 18.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.InventoryItem
	decode(t, w, &item)

	w = perform(t, api, http.MethodPost, "/api/v1/recipes", models.Recipe{
		Name:     "Bread",
		Servings: 500,
		Ingredients: []models.Ingredient{
			{Type: models.IngredientTypeItem, ItemID: item.ID, Quantity: 10, Unit: "kg"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recipe models.Recipe
	decode(t, w, &recipe)

	return item.ID, recipe.ID
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := perform(t, api, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestInventoryItemLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := perform(t, api, http.MethodPost, "/api/v1/items", models.InventoryItem{
		Name:     "Butter",
		Category: "dairy",
		Unit:     "kg",
		UnitCost: 95.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.InventoryItem
	decode(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultBusinessID, created.BusinessID)

	w = perform(t, api, http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	decode(t, w, &items)
	require.Len(t, items, 1)

	w = perform(t, api, http.MethodPut, "/api/v1/items/"+created.ID, models.InventoryItem{
		Name:     "Cultured Butter",
		Category: "dairy",
		Unit:     "kg",
		UnitCost: 110.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.InventoryItem
	decode(t, w, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Cultured Butter", updated.Name)
	assert.Equal(t, 110.0, updated.UnitCost)

	w = perform(t, api, http.MethodDelete, "/api/v1/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(t, api, http.MethodGet, "/api/v1/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInventoryItemValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := map[string]models.InventoryItem{
		"missing name":  {Unit: "kg", UnitCost: 10},
		"missing unit":  {Name: "Salt", UnitCost: 6},
		"negative cost": {Name: "Salt", Unit: "kg", UnitCost: -1},
	}
	for name, item := range cases {
		w := perform(t, api, http.MethodPost, "/api/v1/items", item)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestRecipeCostAndBreakdown(t *testing.T) {
	api := newTestAPI(t)
	_, recipeID := createBreadRecipe(t, api)

	w := perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/cost", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cost struct {
		RecipeID       string  `json:"recipe_id"`
		TotalCost      float64 `json:"total_cost"`
		CostPerServing float64 `json:"cost_per_serving"`
	}
	decode(t, w, &cost)
	assert.Equal(t, recipeID, cost.RecipeID)
	assert.InDelta(t, 180.0, cost.TotalCost, 1e-9)
	assert.InDelta(t, 0.36, cost.CostPerServing, 1e-9)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var breakdown costing.Breakdown
	decode(t, w, &breakdown)
	assert.Equal(t, 500, breakdown.Servings)
	assert.InDelta(t, 180.0, breakdown.RawMaterialCost, 1e-9)
	assert.InDelta(t, 180.0, breakdown.TotalCost, 1e-9)
	assert.Empty(t, breakdown.Flags)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/no-such-recipe/cost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestedPriceEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, recipeID := createBreadRecipe(t, api)

	var priced struct {
		Target float64 `json:"target_food_cost_percent"`
		Price  float64 `json:"suggested_price"`
	}

	// The default settings target a 30% food cost.
	w := perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/suggested-price", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &priced)
	assert.InDelta(t, 30.0, priced.Target, 1e-9)
	assert.InDelta(t, 1.2, priced.Price, 1e-9)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/suggested-price?target=25", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &priced)
	assert.InDelta(t, 1.44, priced.Price, 1e-9)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/suggested-price?target=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestedPriceNeedsAPositiveCost(t *testing.T) {
	api := newTestAPI(t)

	w := perform(t, api, http.MethodPost, "/api/v1/recipes", models.Recipe{
		Name:     "Tap Water",
		Servings: 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var recipe models.Recipe
	decode(t, w, &recipe)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipe.ID+"/suggested-price", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCostHistoryRecordedOncePerDay(t *testing.T) {
	api := newTestAPI(t)
	_, recipeID := createBreadRecipe(t, api)

	var recorded struct {
		Snapshot models.CostSnapshot `json:"snapshot"`
		Samples  int                 `json:"samples"`
	}

	w := perform(t, api, http.MethodPost, "/api/v1/recipes/"+recipeID+"/cost-history", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &recorded)
	assert.Equal(t, 1, recorded.Samples)
	assert.InDelta(t, 180.0, recorded.Snapshot.Cost, 1e-9)

	// Recording again on the same day overwrites rather than appends.
	w = perform(t, api, http.MethodPost, "/api/v1/recipes/"+recipeID+"/cost-history", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &recorded)
	assert.Equal(t, 1, recorded.Samples)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/cost-history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		History []models.CostSnapshot `json:"history"`
		Trend   costing.Trend         `json:"trend"`
	}
	decode(t, w, &history)
	require.Len(t, history.History, 1)
	assert.Equal(t, 1, history.Trend.Samples)
	assert.InDelta(t, 180.0, history.Trend.LatestCost, 1e-9)
}

func TestDeleteReferencedItemRejected(t *testing.T) {
	api := newTestAPI(t)
	itemID, recipeID := createBreadRecipe(t, api)

	w := perform(t, api, http.MethodDelete, "/api/v1/items/"+itemID, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = perform(t, api, http.MethodDelete, "/api/v1/recipes/"+recipeID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(t, api, http.MethodDelete, "/api/v1/items/"+itemID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestsScopedByBusinessHeader(t *testing.T) {
	api := newTestAPI(t)

	w := performAs(t, api, "bakery-north", http.MethodPost, "/api/v1/items", models.InventoryItem{
		Name:     "Rye Flour",
		Unit:     "kg",
		UnitCost: 22.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var items []models.InventoryItem
	w = performAs(t, api, "bakery-north", http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Len(t, items, 1)

	w = performAs(t, api, "bakery-south", http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Empty(t, items)
}

func TestSettingsRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	w := perform(t, api, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings models.BusinessSettings
	decode(t, w, &settings)
	assert.InDelta(t, 30.0, settings.TargetFoodCostPercent, 1e-9)
	assert.Zero(t, settings.TotalMonthlySalary)

	w = perform(t, api, http.MethodPut, "/api/v1/settings", models.BusinessSettings{
		TotalMonthlySalary:       26000,
		WorkingDaysPerMonth:      26,
		WorkingHoursPerDay:       10,
		VariableOverheadPerMonth: 2000,
		FixedOverheadPerMonth:    3000,
		MonthlyDishVolume:        1000,
		TargetFoodCostPercent:    28,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(t, api, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &settings)
	assert.InDelta(t, 26000.0, settings.TotalMonthlySalary, 1e-9)
	assert.InDelta(t, 28.0, settings.TargetFoodCostPercent, 1e-9)
}

func TestConversionsChangeRecipeCost(t *testing.T) {
	api := newTestAPI(t)

	w := perform(t, api, http.MethodPost, "/api/v1/items", models.InventoryItem{
		Name:     "Flour",
		Unit:     "kg",
		UnitCost: 18.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.InventoryItem
	decode(t, w, &item)

	// The recipe measures in grams while the item is priced per kilogram.
	w = perform(t, api, http.MethodPost, "/api/v1/recipes", models.Recipe{
		Name:     "Roux",
		Servings: 1,
		Ingredients: []models.Ingredient{
			{Type: models.IngredientTypeItem, ItemID: item.ID, Quantity: 500, Unit: "g"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var recipe models.Recipe
	decode(t, w, &recipe)

	w = perform(t, api, http.MethodPost, "/api/v1/conversions", models.UnitConversion{
		FromUnit: "g",
		ToUnit:   "kg",
		Factor:   0.001,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var conversion models.UnitConversion
	decode(t, w, &conversion)

	var breakdown costing.Breakdown
	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipe.ID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &breakdown)
	assert.InDelta(t, 9.0, breakdown.TotalCost, 1e-9)
	assert.Empty(t, breakdown.Flags)

	// Without the conversion the factor degrades to 1 and the run is flagged.
	w = perform(t, api, http.MethodDelete, "/api/v1/conversions/"+conversion.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipe.ID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &breakdown)
	assert.InDelta(t, 9000.0, breakdown.TotalCost, 1e-9)
	require.Len(t, breakdown.Flags, 1)
	assert.Equal(t, costing.FlagMissingConversion, breakdown.Flags[0].Kind)
}

func TestOperationalMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, recipeID := createBreadRecipe(t, api)

	for i := 0; i < 2; i++ {
		w := perform(t, api, http.MethodGet, "/api/v1/recipes/"+recipeID+"/cost", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := perform(t, api, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]interface{}
	decode(t, w, &metrics)
	assert.EqualValues(t, 2, metrics["breakdowns_computed"])
	assert.Contains(t, metrics, "uptime_seconds")
}
