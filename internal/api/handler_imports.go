package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"limpiabnb-backend/internal/csvimport"
	"limpiabnb-backend/internal/model"
	"limpiabnb-backend/internal/notification"
)

type csvImportRequest struct {
	Content string `json:"content" binding:"required"`
}

// ImportCSV handles the POST /api/imports/csv request. The tabular text
// is parsed, rows are fuzzy-matched to properties and the batch is
// merged by reservation code.
func (h *Handler) ImportCSV(c *gin.Context) {
	var req csvImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	properties, err := h.store.ListProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := csvimport.Parse(req.Content, properties)
	if err != nil {
		if errors.Is(err, csvimport.ErrInvalidImport) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "count": 0, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Parsed rows are sparse: no ID, no check times. Each needs its own
	// primary key before the batch insert.
	batch := result.Reservations
	for i := range batch {
		batch[i].ApplyDefaults()
	}

	if err := h.store.MergeReservationsByCode(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.bus != nil {
		h.bus.Publish(notification.Notice{
			Category: notification.CategoryReservation,
			Title:    "Importación Completa",
			Message:  fmt.Sprintf("%d reservas importadas desde %s.", result.Count, result.Type),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": result.Count, "type": result.Type})
}

type imageImportRequest struct {
	Image    string `json:"image" binding:"required"` // base64
	MimeType string `json:"mimeType"`
}

// ImportImage handles the POST /api/imports/image request: a booking
// screenshot is sent to the extraction model and the recognized
// reservations are merged like a CSV batch.
func (h *Handler) ImportImage(c *gin.Context) {
	if h.vision == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "La importación por imagen no está configurada."})
		return
	}

	var req imageImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MimeType == "" {
		req.MimeType = "image/png"
	}

	imageData, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be base64 encoded"})
		return
	}

	candidates, err := h.vision.ParseReservationsFromImage(c.Request.Context(), imageData, req.MimeType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "count": 0, "error": "no se encontraron reservas en la imagen"})
		return
	}

	properties, err := h.store.ListProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	batch := make([]model.Reservation, 0, len(candidates))
	for _, cand := range candidates {
		if cand.CheckIn == "" || cand.CheckOut == "" {
			continue
		}
		guests := cand.Guests
		if guests < 1 {
			guests = 1
		}
		r := model.Reservation{
			ID:              uuid.NewString(),
			PropertyID:      csvimport.MatchProperty(cand.PropertyName, properties),
			GuestName:       cand.GuestName,
			GuestCount:      guests,
			ReservationCode: cand.ReservationCode,
			PhoneSuffix:     cand.PhoneSuffix,
			CheckIn:         cand.CheckIn,
			CheckOut:        cand.CheckOut,
		}
		r.ApplyDefaults()
		batch = append(batch, r)
	}
	if len(batch) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "count": 0, "error": "las reservas detectadas no tienen fechas válidas"})
		return
	}

	if err := h.store.MergeReservationsByCode(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.bus != nil {
		h.bus.Publish(notification.Notice{
			Category: notification.CategoryReservation,
			Title:    "Importación Completa",
			Message:  fmt.Sprintf("%d reservas importadas desde una captura.", len(batch)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(batch), "type": "Reservas Imagen"})
}
