package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
)

// ReplaceFeedReservations discards the feed's entire prior partition and
// inserts the freshly parsed set. A full overwrite per feed tolerates remote
// cancellations and edits by reflecting the latest pull.
func (s *gormStore) ReplaceFeedReservations(ctx context.Context, feedID string, items []model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", feedID).Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to clear partition for feed %s: %w", feedID, err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert reservations for feed %s: %w", feedID, err)
		}
		return nil
	})
}

// ReplaceSyncedReservations implements the global resync policy: only the
// manual partition survives; everything else is replaced by the union of the
// cycle's per-feed results.
func (s *gormStore) ReplaceSyncedReservations(ctx context.Context, items []model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id <> ?", model.SourceManual).Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to clear synced partitions: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert synced reservations: %w", err)
		}
		return nil
	})
}

// MergeReservationsByCode deduplicates a bulk import batch against the
// collection: existing reservations whose code matches an incoming one are
// removed before the batch is appended. Codeless incoming rows never match
// anything and are appended as-is.
func (s *gormStore) MergeReservationsByCode(ctx context.Context, items []model.Reservation) error {
	if len(items) == 0 {
		return nil
	}

	var codes []string
	for _, r := range items {
		if r.ReservationCode != "" {
			codes = append(codes, r.ReservationCode)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(codes) > 0 {
			if err := tx.Where("reservation_code IN ?", codes).Delete(&model.Reservation{}).Error; err != nil {
				return fmt.Errorf("failed to remove superseded reservations: %w", err)
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert imported reservations: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListReservations(ctx context.Context, propertyID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	q := s.db.WithContext(ctx).Order("check_in")
	if propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}
	if err := q.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *gormStore) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	return r, err
}

func (s *gormStore) SaveReservation(ctx context.Context, r model.Reservation) error {
	return s.db.WithContext(ctx).Save(&r).Error
}

func (s *gormStore) DeleteReservation(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.Reservation{}, "id = ?", id).Error
}

// ClearReservations wipes the whole collection, or one property's share of it.
func (s *gormStore) ClearReservations(ctx context.Context, propertyID string) error {
	q := s.db.WithContext(ctx)
	if propertyID != "" {
		return q.Where("property_id = ?", propertyID).Delete(&model.Reservation{}).Error
	}
	return q.Where("1 = 1").Delete(&model.Reservation{}).Error
}
