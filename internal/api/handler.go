package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"limpiabnb-backend/internal/notification"
	"limpiabnb-backend/internal/store"
	syncsvc "limpiabnb-backend/internal/sync"
	"limpiabnb-backend/internal/vision"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	bus     *notification.Bus
	sync    *syncsvc.Service
	vision  *vision.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler. vision may be nil when no Gemini
// key is configured; the screenshot import endpoint then reports 503.
func NewHandler(s store.Store, bus *notification.Bus, sync *syncsvc.Service, vision *vision.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		bus:     bus,
		sync:    sync,
		vision:  vision,
		webpush: webpushOptions,
	}
}
