package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mise/internal/costing"
	"mise/internal/feed"
)

// Costing handlers

func (a *CostingAPI) GetRecipeCost(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	breakdown, _, ok := a.costRecipe(c, recipe)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe_id":        recipe.ID,
		"recipe_name":      recipe.Name,
		"total_cost":       breakdown.TotalCost,
		"cost_per_serving": breakdown.CostPerServing,
		"flags":            breakdown.Flags,
	})
}

func (a *CostingAPI) GetRecipeBreakdown(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	breakdown, _, ok := a.costRecipe(c, recipe)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

func (a *CostingAPI) GetSuggestedPrice(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	breakdown, settings, ok := a.costRecipe(c, recipe)
	if !ok {
		return
	}

	target := settings.TargetFoodCostPercent
	if raw := c.Query("target"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target must be a number"})
			return
		}
		target = parsed
	}
	if target <= 0 {
		target = costing.DefaultTargetFoodCostPercent
	}

	price, priced := costing.SuggestPrice(breakdown.CostPerServing, target)
	if !priced {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Recipe has no positive cost per serving to price from"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe_id":                recipe.ID,
		"cost_per_serving":         breakdown.CostPerServing,
		"target_food_cost_percent": target,
		"suggested_price":          price,
	})
}

func (a *CostingAPI) GetCostHistory(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe_id": recipe.ID,
		"history":   recipe.CostHistory,
		"trend":     costing.SummarizeHistory(recipe.CostHistory),
	})
}

// RecordCostHistory recalculates the recipe's cost and records it as today's
// snapshot. Recording twice on one day keeps a single figure for that day.
func (a *CostingAPI) RecordCostHistory(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	breakdown, _, ok := a.costRecipe(c, recipe)
	if !ok {
		return
	}

	now := time.Now().UTC()
	recipe.CostHistory = costing.RecordSnapshot(recipe.CostHistory, breakdown.TotalCost, now)
	if err := a.Store.SaveCostHistory(recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Collector.RecordHistorySnapshot()
	a.Feed.Broadcast(feed.CostUpdate{
		BusinessID:     businessID(c),
		RecipeID:       recipe.ID,
		RecipeName:     recipe.Name,
		TotalCost:      breakdown.TotalCost,
		CostPerServing: breakdown.CostPerServing,
		Flags:          len(breakdown.Flags),
		RecordedAt:     now,
	})

	c.JSON(http.StatusCreated, gin.H{
		"snapshot": recipe.CostHistory[len(recipe.CostHistory)-1],
		"samples":  len(recipe.CostHistory),
	})
}
