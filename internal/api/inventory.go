package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mise/internal/models"
)

// Inventory management handlers

func (a *CostingAPI) ListInventoryItems(c *gin.Context) {
	items, err := a.Store.ListInventoryItems(businessID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (a *CostingAPI) CreateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item.BusinessID = businessID(c)
	if err := models.ValidateInventoryItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.CreateInventoryItem(&item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (a *CostingAPI) GetInventoryItem(c *gin.Context) {
	item, err := a.Store.GetInventoryItem(businessID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Inventory item")
		return
	}

	c.JSON(http.StatusOK, item)
}

func (a *CostingAPI) UpdateInventoryItem(c *gin.Context) {
	existing, err := a.Store.GetInventoryItem(businessID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Inventory item")
		return
	}

	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The identity fields come from the stored record, not the payload.
	item.ID = existing.ID
	item.BusinessID = existing.BusinessID
	item.CreatedAt = existing.CreatedAt

	if err := models.ValidateInventoryItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.UpdateInventoryItem(&item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (a *CostingAPI) DeleteInventoryItem(c *gin.Context) {
	if err := a.Store.DeleteInventoryItem(businessID(c), c.Param("id")); err != nil {
		respondStoreError(c, err, "Inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}
