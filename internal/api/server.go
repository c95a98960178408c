package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mise/internal/costing"
	"mise/internal/feed"
	"mise/internal/models"
	"mise/internal/monitoring"
	"mise/internal/store"
)

// DefaultBusinessID scopes requests that don't carry an X-Business-ID header
const DefaultBusinessID = "default"

// CostingAPI represents the main API handler for recipe costing
type CostingAPI struct {
	Router    *gin.Engine
	Store     *store.Store
	Collector *monitoring.MetricsCollector
	Monitor   *monitoring.Monitor
	Feed      *feed.Hub
}

// NewCostingAPI creates a new costing API instance
func NewCostingAPI(st *store.Store, collector *monitoring.MetricsCollector, monitor *monitoring.Monitor, hub *feed.Hub) *CostingAPI {
	router := gin.Default()

	api := &CostingAPI{
		Router:    router,
		Store:     st,
		Collector: collector,
		Monitor:   monitor,
		Feed:      hub,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *CostingAPI) setupRoutes() {
	// Health check
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "mise costing API is running"})
	})

	v1 := a.Router.Group("/api/v1")
	{
		// Inventory management
		v1.GET("/items", a.ListInventoryItems)
		v1.POST("/items", a.CreateInventoryItem)
		v1.GET("/items/:id", a.GetInventoryItem)
		v1.PUT("/items/:id", a.UpdateInventoryItem)
		v1.DELETE("/items/:id", a.DeleteInventoryItem)

		// Recipe management
		v1.GET("/recipes", a.ListRecipes)
		v1.POST("/recipes", a.CreateRecipe)
		v1.GET("/recipes/:id", a.GetRecipe)
		v1.PUT("/recipes/:id", a.UpdateRecipe)
		v1.DELETE("/recipes/:id", a.DeleteRecipe)

		// Costing
		v1.GET("/recipes/:id/cost", a.GetRecipeCost)
		v1.GET("/recipes/:id/breakdown", a.GetRecipeBreakdown)
		v1.GET("/recipes/:id/suggested-price", a.GetSuggestedPrice)
		v1.GET("/recipes/:id/cost-history", a.GetCostHistory)
		v1.POST("/recipes/:id/cost-history", a.RecordCostHistory)

		// Unit conversions
		v1.GET("/conversions", a.ListUnitConversions)
		v1.POST("/conversions", a.CreateUnitConversion)
		v1.DELETE("/conversions/:id", a.DeleteUnitConversion)

		// Business settings
		v1.GET("/settings", a.GetSettings)
		v1.PUT("/settings", a.UpdateSettings)

		// Operational metrics
		v1.GET("/metrics", a.GetOperationalMetrics)
	}

	// Live cost feed
	a.Router.GET("/ws", a.Feed.HandleWebSocket)
}

// GetOperationalMetrics reports the monitor's rolling counters
func (a *CostingAPI) GetOperationalMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.Monitor.GetMetrics())
}

// Private helper methods

// businessID resolves which business a request operates on
func businessID(c *gin.Context) string {
	if id := c.GetHeader("X-Business-ID"); id != "" {
		return id
	}
	return DefaultBusinessID
}

// respondStoreError writes the HTTP response for a failed store call
func respondStoreError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, store.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": resource + " is still referenced by a recipe"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// fetchRecipe loads the recipe named in the path, answering the request
// itself when the lookup fails
func (a *CostingAPI) fetchRecipe(c *gin.Context) (*models.Recipe, bool) {
	recipe, err := a.Store.GetRecipe(businessID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Recipe")
		return nil, false
	}
	return recipe, true
}

// costRecipe runs the engine over the business's current catalog and records
// the run with both metric sinks
func (a *CostingAPI) costRecipe(c *gin.Context, recipe *models.Recipe) (*costing.Breakdown, *models.BusinessSettings, bool) {
	biz := businessID(c)
	catalog, err := a.Store.Snapshot(biz)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	settings, err := a.Store.GetSettings(biz)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	start := time.Now()
	breakdown := costing.New(catalog, *settings).Breakdown(recipe)

	a.Collector.RecordBreakdown(recipe.Category, time.Since(start), breakdown.Flags)
	a.Monitor.RecordBreakdown(recipe.ID, breakdown.TotalCost, len(breakdown.Flags))

	return breakdown, settings, true
}
