package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mise/internal/models"
)

// Business settings handlers

func (a *CostingAPI) GetSettings(c *gin.Context) {
	settings, err := a.Store.GetSettings(businessID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (a *CostingAPI) UpdateSettings(c *gin.Context) {
	var settings models.BusinessSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings.BusinessID = businessID(c)
	if err := a.Store.SaveSettings(&settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
