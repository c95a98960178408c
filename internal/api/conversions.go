package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mise/internal/models"
)

// Unit conversion handlers

func (a *CostingAPI) ListUnitConversions(c *gin.Context) {
	conversions, err := a.Store.ListUnitConversions(businessID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conversions)
}

func (a *CostingAPI) CreateUnitConversion(c *gin.Context) {
	var conversion models.UnitConversion
	if err := c.ShouldBindJSON(&conversion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversion.BusinessID = businessID(c)
	if err := models.ValidateUnitConversion(&conversion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.CreateUnitConversion(&conversion); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conversion)
}

func (a *CostingAPI) DeleteUnitConversion(c *gin.Context) {
	if err := a.Store.DeleteUnitConversion(businessID(c), c.Param("id")); err != nil {
		respondStoreError(c, err, "Unit conversion")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unit conversion deleted successfully"})
}
