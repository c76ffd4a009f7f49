package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"limpiabnb-backend/internal/ical"
	"limpiabnb-backend/internal/model"
	syncsvc "limpiabnb-backend/internal/sync"
)

// GetFeeds handles the GET /api/feeds request.
func (h *Handler) GetFeeds(c *gin.Context) {
	feeds, err := h.store.ListFeeds(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feeds"})
		return
	}
	c.JSON(http.StatusOK, feeds)
}

type createFeedRequest struct {
	Label string `json:"label"`
	URL   string `json:"url" binding:"required"`
}

// CreateFeed handles the POST /api/properties/{id}/feeds request. The
// feed is stored first, then synced immediately; a sync failure does not
// undo the creation, it is reported alongside so the client can retry.
func (h *Handler) CreateFeed(c *gin.Context) {
	propertyID := c.Param("id")
	if _, err := h.store.GetProperty(c.Request.Context(), propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var req createFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed := model.CalendarFeed{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Label:      req.Label,
		URL:        req.URL,
	}
	if err := h.store.CreateFeed(c.Request.Context(), feed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := h.sync.SyncFeed(c.Request.Context(), feed)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"feed": feed, "synced": 0, "syncError": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feed": feed, "synced": count})
}

// DeleteFeed handles the DELETE /api/feeds/{feed_id} request. The feed's
// reservation partition is removed with it.
func (h *Handler) DeleteFeed(c *gin.Context) {
	if err := h.store.DeleteFeed(c.Request.Context(), c.Param("feed_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncFeed handles the POST /api/feeds/{feed_id}/sync request.
func (h *Handler) SyncFeed(c *gin.Context) {
	feed, err := h.store.GetFeed(c.Request.Context(), c.Param("feed_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	count, err := h.sync.SyncFeed(c.Request.Context(), feed)
	if err != nil {
		if errors.Is(err, ical.ErrSyncUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo sincronizar el calendario. Inténtalo más tarde."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": count})
}

// SyncAll handles the POST /api/sync request: one global cycle over
// every configured feed.
func (h *Handler) SyncAll(c *gin.Context) {
	err := h.sync.SyncAll(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, syncsvc.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "sync already running"})
	case errors.Is(err, ical.ErrSyncUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo sincronizar ningún calendario."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
