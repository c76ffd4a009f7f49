package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
	"limpiabnb-backend/internal/notification"
)

// GetReservations handles the GET /api/reservations request. An optional
// property_id query narrows the listing.
func (h *Handler) GetReservations(c *gin.Context) {
	reservations, err := h.store.ListReservations(c.Request.Context(), c.Query("property_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// CreateReservations handles the POST /api/reservations request. The
// body is an array; a single manual entry is just a one-element batch.
// Entries sharing a reservation code with stored rows replace them.
func (h *Handler) CreateReservations(c *gin.Context) {
	var batch []model.Reservation
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty reservation batch"})
		return
	}

	for i := range batch {
		batch[i].ApplyDefaults()
		if batch[i].PropertyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reservation requires propertyId"})
			return
		}
		if err := batch[i].ValidateDates(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.store.MergeReservationsByCode(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.bus != nil {
		h.bus.Publish(notification.Notice{
			Category:   notification.CategoryReservation,
			Title:      "Nueva Reserva",
			Message:    "Se han registrado nuevas reservas.",
			PropertyID: batch[0].PropertyID,
		})
	}
	c.JSON(http.StatusCreated, batch)
}

// updateReservationRequest uses pointers so absent fields leave the
// stored value untouched.
type updateReservationRequest struct {
	PropertyID      *string                  `json:"propertyId"`
	GuestName       *string                  `json:"guestName"`
	GuestCount      *int                     `json:"guestCount"`
	ReservationCode *string                  `json:"reservationCode"`
	PhoneSuffix     *string                  `json:"phoneSuffix"`
	Observations    *string                  `json:"observations"`
	CheckIn         *string                  `json:"checkIn"`
	CheckOut        *string                  `json:"checkOut"`
	CheckInTime     *string                  `json:"checkInTime"`
	CheckOutTime    *string                  `json:"checkOutTime"`
	Status          *model.ReservationStatus `json:"status"`
}

// UpdateReservation handles the PUT /api/reservations/{id} request.
func (h *Handler) UpdateReservation(c *gin.Context) {
	r, err := h.store.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PropertyID != nil {
		r.PropertyID = *req.PropertyID
	}
	if req.GuestName != nil {
		r.GuestName = *req.GuestName
	}
	if req.GuestCount != nil {
		r.GuestCount = *req.GuestCount
	}
	if req.ReservationCode != nil {
		r.ReservationCode = *req.ReservationCode
	}
	if req.PhoneSuffix != nil {
		r.PhoneSuffix = *req.PhoneSuffix
	}
	if req.Observations != nil {
		r.Observations = *req.Observations
	}
	if req.CheckIn != nil {
		r.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		r.CheckOut = *req.CheckOut
	}
	if req.CheckInTime != nil {
		r.CheckInTime = *req.CheckInTime
	}
	if req.CheckOutTime != nil {
		r.CheckOutTime = *req.CheckOutTime
	}
	if req.Status != nil {
		r.Status = *req.Status
	}

	if err := r.ValidateDates(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveReservation(c.Request.Context(), r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteReservation handles the DELETE /api/reservations/{id} request.
func (h *Handler) DeleteReservation(c *gin.Context) {
	if err := h.store.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearReservations handles the DELETE /api/reservations request. With a
// property_id query only that property's reservations are removed.
func (h *Handler) ClearReservations(c *gin.Context) {
	if err := h.store.ClearReservations(c.Request.Context(), c.Query("property_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
