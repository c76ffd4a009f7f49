package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limpiabnb-backend/internal/store"
)

// GetBackup handles the GET /api/backup request: the whole database as
// one JSON document.
func (h *Handler) GetBackup(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="limpiabnb-backup.json"`)
	c.JSON(http.StatusOK, snap)
}

// RestoreBackup handles the POST /api/backup/restore request. The
// uploaded document replaces every collection; a bind or write failure
// leaves the database as it was.
func (h *Handler) RestoreBackup(c *gin.Context) {
	var snap store.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Restore(c.Request.Context(), &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}
