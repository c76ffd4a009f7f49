package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"limpiabnb-backend/config"
	"limpiabnb-backend/internal/ical"
	"limpiabnb-backend/internal/model"
	"limpiabnb-backend/internal/notification"
	"limpiabnb-backend/internal/turnover"
)

// ErrSyncInProgress is returned when a global sync is requested while a
// previous one is still running.
var ErrSyncInProgress = errors.New("a sync cycle is already running")

// Store is the slice of persistence the sync service needs.
type Store interface {
	ListFeeds(ctx context.Context) ([]model.CalendarFeed, error)
	ReplaceFeedReservations(ctx context.Context, feedID string, items []model.Reservation) error
	ReplaceSyncedReservations(ctx context.Context, items []model.Reservation) error
	TouchFeedSynced(ctx context.Context, id string, at time.Time) error
	ListReservations(ctx context.Context, propertyID string) ([]model.Reservation, error)
}

// Fetcher retrieves raw calendar documents for feed URLs.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Service orchestrates calendar synchronization: fetch every feed, parse
// it, reconcile the reservation collection, then notify about turnovers.
type Service struct {
	cfg        *config.Config
	store      Store
	fetcher    Fetcher
	workerPool *notification.WorkerPool
	bus        *notification.Bus
	syncing    atomic.Bool
}

// NewService creates and initializes a new sync service.
func NewService(cfg *config.Config, store Store, fetcher Fetcher, workerPool *notification.WorkerPool, bus *notification.Bus) *Service {
	return &Service{
		cfg:        cfg,
		store:      store,
		fetcher:    fetcher,
		workerPool: workerPool,
		bus:        bus,
	}
}

// Run starts the periodic sync loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sync.Enabled {
		log.Println("Calendar sync is disabled. Not starting.")
		return
	}
	log.Println("Starting sync service...")

	if s.workerPool != nil {
		s.workerPool.Start(ctx)
	}

	if err := s.SyncAll(ctx); err != nil {
		log.Printf("Initial sync cycle failed: %v", err)
	}

	timer := time.NewTimer(s.cfg.Sync.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync service shutting down.")
			return
		case <-timer.C:
			if err := s.SyncAll(ctx); err != nil {
				log.Printf("Sync cycle failed: %v", err)
			}
			timer.Reset(s.cfg.Sync.Interval)
		}
	}
}

// SyncFeed refreshes a single feed's reservation partition. Unlike the
// global cycle, failures surface to the caller so a user-triggered sync
// can report them.
func (s *Service) SyncFeed(ctx context.Context, feed model.CalendarFeed) (int, error) {
	body, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed %s: %w", feed.ID, err)
	}

	reservations := ical.Parse(body, feed.PropertyID, feed.ID)
	if err := s.store.ReplaceFeedReservations(ctx, feed.ID, reservations); err != nil {
		return 0, fmt.Errorf("failed to reconcile feed %s: %w", feed.ID, err)
	}
	if err := s.store.TouchFeedSynced(ctx, feed.ID, time.Now()); err != nil {
		log.Printf("Failed to record sync time for feed %s: %v", feed.ID, err)
	}
	return len(reservations), nil
}

// SyncAll runs one global sync cycle: every feed is fetched and parsed,
// and the union of the results replaces all synced partitions at once.
// The manual partition is never touched. At most one cycle runs at a
// time.
func (s *Service) SyncAll(ctx context.Context) error {
	if !s.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	log.Println("Executing sync cycle...")
	now := time.Now()

	feeds, err := s.store.ListFeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list feeds: %w", err)
	}
	if len(feeds) == 0 {
		log.Println("Sync cycle finished: no feeds configured.")
		return nil
	}

	var union []model.Reservation
	synced := 0
	for _, feed := range feeds {
		body, err := s.fetcher.Fetch(ctx, feed.URL)
		if err != nil {
			log.Printf("Feed %s (%s) failed this cycle: %v", feed.ID, feed.URL, err)
			continue
		}
		union = append(union, ical.Parse(body, feed.PropertyID, feed.ID)...)
		if err := s.store.TouchFeedSynced(ctx, feed.ID, now); err != nil {
			log.Printf("Failed to record sync time for feed %s: %v", feed.ID, err)
		}
		synced++
	}

	// A cycle where every feed failed must not wipe the previous data.
	if synced == 0 {
		log.Println("Sync cycle aborted: every feed failed. Reservations will not be updated.")
		return ical.ErrSyncUnavailable
	}

	if err := s.store.ReplaceSyncedReservations(ctx, union); err != nil {
		return fmt.Errorf("failed to reconcile synced reservations: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(notification.Notice{
			Category: notification.CategorySystem,
			Title:    "Sincronización Completa",
			Message:  fmt.Sprintf("%d de %d calendarios actualizados, %d reservas importadas.", synced, len(feeds), len(union)),
		})
	}

	s.notifyTurnovers(ctx)

	log.Println("Sync cycle finished.")
	return nil
}

// notifyTurnovers looks for same-day checkout/check-in collisions falling
// on today and pushes a cleaning alert per affected property.
func (s *Service) notifyTurnovers(ctx context.Context) {
	all, err := s.store.ListReservations(ctx, "")
	if err != nil {
		log.Printf("Failed to list reservations for turnover check: %v", err)
		return
	}

	today := turnover.Today()
	for _, day := range turnover.CriticalDays(all, today) {
		if day.Date != today {
			continue
		}
		for _, propertyID := range day.PropertyIDs {
			if s.bus != nil {
				s.bus.Publish(notification.Notice{
					Category:   notification.CategoryCleaning,
					Title:      "Día de Rotación",
					Message:    "Salida y entrada el mismo día. Prioriza la limpieza.",
					PropertyID: propertyID,
				})
			}
			if s.workerPool != nil {
				s.workerPool.Dispatch(notification.Job{
					PropertyID: propertyID,
					Message:    "Salida y entrada el mismo día. Prioriza la limpieza.",
				})
			}
		}
	}
}

// Syncing reports whether a global cycle is currently running.
func (s *Service) Syncing() bool {
	return s.syncing.Load()
}
