package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"limpiabnb-backend/config"
	"limpiabnb-backend/internal/api"
	"limpiabnb-backend/internal/db"
	"limpiabnb-backend/internal/ical"
	"limpiabnb-backend/internal/notification"
	"limpiabnb-backend/internal/store"
	"limpiabnb-backend/internal/sync"
	"limpiabnb-backend/internal/vision"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "limpiabnb-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Check for VAPID keys
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	bus := notification.NewBus(0)

	// The screenshot import is optional; without a key the endpoint
	// reports 503 and everything else works.
	var visionSvc *vision.Service
	if cfg.Gemini.APIKey != "" {
		visionSvc, err = vision.NewService(ctx, &cfg.Gemini)
		if err != nil {
			logger.Fatalf("failed to initialize screenshot import: %v", err)
		}
		logger.Printf("screenshot import enabled with model %s", cfg.Gemini.Model)
	} else {
		logger.Println("gemini api_key not configured, screenshot import disabled")
	}

	// Initialize and run the calendar sync loop in the background
	fetcher := ical.NewFetcher(cfg.Sync.Relays, cfg.Sync.Timeout)
	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	syncSvc := sync.NewService(cfg, appStore, fetcher, workerPool, bus)
	go syncSvc.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, appStore, bus, syncSvc, visionSvc, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
