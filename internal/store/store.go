package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Reconciliation policies over the reservation collection.
	ReplaceFeedReservations(ctx context.Context, feedID string, items []model.Reservation) error
	ReplaceSyncedReservations(ctx context.Context, items []model.Reservation) error
	MergeReservationsByCode(ctx context.Context, items []model.Reservation) error

	ListReservations(ctx context.Context, propertyID string) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id string) (model.Reservation, error)
	SaveReservation(ctx context.Context, r model.Reservation) error
	DeleteReservation(ctx context.Context, id string) error
	ClearReservations(ctx context.Context, propertyID string) error

	ListProperties(ctx context.Context) ([]model.Property, error)
	GetProperty(ctx context.Context, id string) (model.Property, error)
	CreateProperty(ctx context.Context, p model.Property) error
	UpdateProperty(ctx context.Context, p model.Property) error
	DeleteProperty(ctx context.Context, id string) error

	ListFeeds(ctx context.Context) ([]model.CalendarFeed, error)
	GetFeed(ctx context.Context, id string) (model.CalendarFeed, error)
	CreateFeed(ctx context.Context, f model.CalendarFeed) error
	DeleteFeed(ctx context.Context, id string) error
	TouchFeedSynced(ctx context.Context, id string, at time.Time) error

	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item model.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item model.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (model.InventoryItem, error)

	ListProfiles(ctx context.Context) ([]model.Profile, error)
	CreateProfile(ctx context.Context, p model.Profile) error
	UpdateProfile(ctx context.Context, p model.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	Snapshot(ctx context.Context) (*Snapshot, error)
	Restore(ctx context.Context, snap *Snapshot) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}
