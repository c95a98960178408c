package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mise/internal/models"
)

// Recipe management handlers

func (a *CostingAPI) ListRecipes(c *gin.Context) {
	recipes, err := a.Store.ListRecipes(businessID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (a *CostingAPI) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe.BusinessID = businessID(c)
	recipe.CostHistory = nil
	if err := models.ValidateRecipe(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.CreateRecipe(&recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (a *CostingAPI) GetRecipe(c *gin.Context) {
	recipe, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (a *CostingAPI) UpdateRecipe(c *gin.Context) {
	existing, ok := a.fetchRecipe(c)
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Identity and recorded history survive the update; history only changes
	// through the cost-history endpoint.
	recipe.ID = existing.ID
	recipe.BusinessID = existing.BusinessID
	recipe.CreatedAt = existing.CreatedAt
	recipe.CostHistory = existing.CostHistory

	if err := models.ValidateRecipe(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.UpdateRecipe(&recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (a *CostingAPI) DeleteRecipe(c *gin.Context) {
	if err := a.Store.DeleteRecipe(businessID(c), c.Param("id")); err != nil {
		respondStoreError(c, err, "Recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
