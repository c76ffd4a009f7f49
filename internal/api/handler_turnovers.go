package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
	"limpiabnb-backend/internal/notification"
	"limpiabnb-backend/internal/turnover"
)

// GetTurnovers handles the GET /api/turnovers request: the upcoming days
// where a checkout and a check-in collide on the same property.
func (h *Handler) GetTurnovers(c *gin.Context) {
	reservations, err := h.store.ListReservations(c.Request.Context(), "")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	days := turnover.CriticalDays(reservations, turnover.Today())
	if days == nil {
		days = []turnover.CriticalDay{}
	}
	c.JSON(http.StatusOK, days)
}

// cleaningTask is one checkout a cleaner has to cover.
type cleaningTask struct {
	Reservation model.Reservation `json:"reservation"`
	Critical    bool              `json:"critical"`
}

// GetCleanings handles the GET /api/cleanings request. The date query
// defaults to today; critical marks same-day turnovers.
func (h *Handler) GetCleanings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = turnover.Today()
	}

	reservations, err := h.store.ListReservations(c.Request.Context(), "")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	critical := make(map[string]bool)
	for _, day := range turnover.CriticalDays(reservations, date) {
		if day.Date != date {
			continue
		}
		for _, propertyID := range day.PropertyIDs {
			critical[propertyID] = true
		}
	}

	tasks := make([]cleaningTask, 0)
	for _, r := range turnover.CheckOutsOn(reservations, date) {
		tasks = append(tasks, cleaningTask{
			Reservation: r,
			Critical:    critical[r.PropertyID],
		})
	}
	c.JSON(http.StatusOK, tasks)
}

// CompleteCleaning handles the POST /api/cleanings/{reservation_id}/complete
// request: the stay is closed out once its cleaning is done.
func (h *Handler) CompleteCleaning(c *gin.Context) {
	r, err := h.store.GetReservation(c.Request.Context(), c.Param("reservation_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	r.Status = model.StatusCompleted
	if err := h.store.SaveReservation(c.Request.Context(), r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.bus != nil {
		h.bus.Publish(notification.Notice{
			Category:   notification.CategoryCleaning,
			Title:      "Limpieza Completada",
			Message:    "La limpieza se ha marcado como completada.",
			PropertyID: r.PropertyID,
		})
	}
	c.JSON(http.StatusOK, r)
}
