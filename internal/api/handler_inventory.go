package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
	"limpiabnb-backend/internal/notification"
)

// GetInventory handles the GET /api/inventory request.
func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.store.ListInventory(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateInventoryItem handles the POST /api/inventory request.
func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var item model.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item name is required"})
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := h.store.CreateInventoryItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem handles the PUT /api/inventory/{id} request.
func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	var item model.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = c.Param("id")
	if err := h.store.UpdateInventoryItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteInventoryItem handles the DELETE /api/inventory/{id} request.
func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	if err := h.store.DeleteInventoryItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock handles the POST /api/inventory/{id}/adjust request.
// Dropping to or under the minimum raises a low stock notice.
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.store.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if item.LowStock() && h.bus != nil {
		h.bus.Publish(notification.Notice{
			Category: notification.CategoryStock,
			Title:    "Stock Bajo",
			Message:  fmt.Sprintf("Quedan %d %s de %s.", item.Stock, item.Unit, item.Name),
		})
	}
	c.JSON(http.StatusOK, item)
}
