package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
)

// GetProperties handles the GET /api/properties request.
func (h *Handler) GetProperties(c *gin.Context) {
	properties, err := h.store.ListProperties(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetProperty handles the GET /api/properties/{id} request.
func (h *Handler) GetProperty(c *gin.Context) {
	p, err := h.store.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProperty handles the POST /api/properties request.
func (h *Handler) CreateProperty(c *gin.Context) {
	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property name is required"})
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Feeds = nil

	if err := h.store.CreateProperty(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProperty handles the PUT /api/properties/{id} request.
func (h *Handler) UpdateProperty(c *gin.Context) {
	existing, err := h.store.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = existing.ID
	p.Feeds = nil

	if err := h.store.UpdateProperty(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProperty handles the DELETE /api/properties/{id} request. The
// property's feeds and reservations go with it.
func (h *Handler) DeleteProperty(c *gin.Context) {
	if err := h.store.DeleteProperty(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
