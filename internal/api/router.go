package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"limpiabnb-backend/config"
	"limpiabnb-backend/internal/mw"
	"limpiabnb-backend/internal/notification"
	"limpiabnb-backend/internal/store"
	syncsvc "limpiabnb-backend/internal/sync"
	"limpiabnb-backend/internal/vision"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, bus *notification.Bus, syncService *syncsvc.Service, visionService *vision.Service, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()
	if cfg.Server.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.Server.RequestIPHeader
	}

	handler := NewHandler(s, bus, syncService, visionService, webpushOptions)

	// Initialize middleware
	rps := cfg.Server.RateLimitPerSec
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Server.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(rps), burst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter, caching)
	{
		api.GET("/properties", handler.GetProperties)
		api.POST("/properties", handler.CreateProperty)
		api.GET("/properties/:id", handler.GetProperty)
		api.PUT("/properties/:id", handler.UpdateProperty)
		api.DELETE("/properties/:id", handler.DeleteProperty)
		api.POST("/properties/:id/feeds", handler.CreateFeed)

		api.GET("/feeds", handler.GetFeeds)
		api.DELETE("/feeds/:feed_id", handler.DeleteFeed)
		api.POST("/feeds/:feed_id/sync", handler.SyncFeed)
		api.POST("/sync", handler.SyncAll)

		api.GET("/reservations", handler.GetReservations)
		api.POST("/reservations", handler.CreateReservations)
		api.PUT("/reservations/:id", handler.UpdateReservation)
		api.DELETE("/reservations/:id", handler.DeleteReservation)
		api.DELETE("/reservations", handler.ClearReservations)

		api.POST("/imports/csv", handler.ImportCSV)
		api.POST("/imports/image", handler.ImportImage)

		api.GET("/turnovers", handler.GetTurnovers)
		api.GET("/cleanings", handler.GetCleanings)
		api.POST("/cleanings/:reservation_id/complete", handler.CompleteCleaning)

		api.GET("/inventory", handler.GetInventory)
		api.POST("/inventory", handler.CreateInventoryItem)
		api.PUT("/inventory/:id", handler.UpdateInventoryItem)
		api.DELETE("/inventory/:id", handler.DeleteInventoryItem)
		api.POST("/inventory/:id/adjust", handler.AdjustStock)

		api.GET("/profiles", handler.GetProfiles)
		api.POST("/profiles", handler.CreateProfile)
		api.PUT("/profiles/:id", handler.UpdateProfile)
		api.DELETE("/profiles/:id", handler.DeleteProfile)

		api.GET("/notifications", handler.GetNotifications)
		api.GET("/notifications/stream", handler.StreamNotifications)
		api.POST("/notifications/:id/read", handler.ReadNotification)
		api.POST("/notifications/read_all", handler.ReadAllNotifications)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		api.GET("/backup", handler.GetBackup)
		api.POST("/backup/restore", handler.RestoreBackup)
	}

	return r
}
