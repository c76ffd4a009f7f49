package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
)

// Snapshot is the whole-document backup form: every collection serialized
// together. Restore replaces local state wholesale, it never merges.
type Snapshot struct {
	Properties   []model.Property      `json:"properties"`
	Feeds        []model.CalendarFeed  `json:"feeds"`
	Reservations []model.Reservation   `json:"reservations"`
	Inventory    []model.InventoryItem `json:"inventory"`
	Profiles     []model.Profile       `json:"profiles"`
}

func (s *gormStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	db := s.db.WithContext(ctx)
	if err := db.Find(&snap.Properties).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot properties: %w", err)
	}
	if err := db.Find(&snap.Feeds).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot feeds: %w", err)
	}
	if err := db.Find(&snap.Reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot reservations: %w", err)
	}
	if err := db.Find(&snap.Inventory).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot inventory: %w", err)
	}
	if err := db.Find(&snap.Profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot profiles: %w", err)
	}
	return &snap, nil
}

// Restore is all-or-nothing: every collection is wiped and refilled inside
// one transaction, so a malformed backup leaves the database untouched.
func (s *gormStore) Restore(ctx context.Context, snap *Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&model.Reservation{},
			&model.CalendarFeed{},
			&model.Property{},
			&model.InventoryItem{},
			&model.Profile{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear collection during restore: %w", err)
			}
		}

		if len(snap.Properties) > 0 {
			if err := tx.Omit("Feeds").Create(&snap.Properties).Error; err != nil {
				return fmt.Errorf("failed to restore properties: %w", err)
			}
		}
		if len(snap.Feeds) > 0 {
			if err := tx.Create(&snap.Feeds).Error; err != nil {
				return fmt.Errorf("failed to restore feeds: %w", err)
			}
		}
		if len(snap.Reservations) > 0 {
			if err := tx.Create(&snap.Reservations).Error; err != nil {
				return fmt.Errorf("failed to restore reservations: %w", err)
			}
		}
		if len(snap.Inventory) > 0 {
			if err := tx.Create(&snap.Inventory).Error; err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
		}
		if len(snap.Profiles) > 0 {
			if err := tx.Create(&snap.Profiles).Error; err != nil {
				return fmt.Errorf("failed to restore profiles: %w", err)
			}
		}
		return nil
	})
}
