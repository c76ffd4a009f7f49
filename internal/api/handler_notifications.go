package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNotifications handles the GET /api/notifications request, newest
// first.
func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.bus.List())
}

// StreamNotifications handles the GET /api/notifications/stream request
// as a server-sent event feed. The subscription lasts until the client
// disconnects.
func (h *Handler) StreamNotifications(c *gin.Context) {
	ch, cancel := h.bus.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ReadNotification handles the POST /api/notifications/{id}/read request.
func (h *Handler) ReadNotification(c *gin.Context) {
	if !h.bus.MarkRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ReadAllNotifications handles the POST /api/notifications/read_all request.
func (h *Handler) ReadAllNotifications(c *gin.Context) {
	h.bus.MarkAllRead()
	c.Status(http.StatusNoContent)
}
