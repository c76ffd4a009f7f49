package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"limpiabnb-backend/internal/model"
)

func (s *gormStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	var properties []model.Property
	if err := s.db.WithContext(ctx).Preload("Feeds").Order("created_at").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *gormStore) GetProperty(ctx context.Context, id string) (model.Property, error) {
	var p model.Property
	err := s.db.WithContext(ctx).Preload("Feeds").First(&p, "id = ?", id).Error
	return p, err
}

func (s *gormStore) CreateProperty(ctx context.Context, p model.Property) error {
	return s.db.WithContext(ctx).Create(&p).Error
}

func (s *gormStore) UpdateProperty(ctx context.Context, p model.Property) error {
	return s.db.WithContext(ctx).Omit("Feeds").Save(&p).Error
}

// DeleteProperty cascades to the property's feeds and all of its
// reservations, whatever partition they came from.
func (s *gormStore) DeleteProperty(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to delete reservations of property %s: %w", id, err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&model.CalendarFeed{}).Error; err != nil {
			return fmt.Errorf("failed to delete feeds of property %s: %w", id, err)
		}
		if err := tx.Delete(&model.Property{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete property %s: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) ListFeeds(ctx context.Context) ([]model.CalendarFeed, error) {
	var feeds []model.CalendarFeed
	if err := s.db.WithContext(ctx).Order("created_at").Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

func (s *gormStore) GetFeed(ctx context.Context, id string) (model.CalendarFeed, error) {
	var f model.CalendarFeed
	err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return f, err
}

func (s *gormStore) CreateFeed(ctx context.Context, f model.CalendarFeed) error {
	return s.db.WithContext(ctx).Create(&f).Error
}

// DeleteFeed cascades to the feed's reservation partition.
func (s *gormStore) DeleteFeed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", id).Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to delete partition of feed %s: %w", id, err)
		}
		if err := tx.Delete(&model.CalendarFeed{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete feed %s: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) TouchFeedSynced(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.CalendarFeed{}).
		Where("id = ?", id).
		Update("last_synced", at).Error
}

func (s *gormStore) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) CreateInventoryItem(ctx context.Context, item model.InventoryItem) error {
	return s.db.WithContext(ctx).Create(&item).Error
}

func (s *gormStore) UpdateInventoryItem(ctx context.Context, item model.InventoryItem) error {
	return s.db.WithContext(ctx).Save(&item).Error
}

func (s *gormStore) DeleteInventoryItem(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.InventoryItem{}, "id = ?", id).Error
}

// AdjustStock applies a delta to an item's stock with a floor of zero and
// returns the updated item so callers can check the restock threshold.
func (s *gormStore) AdjustStock(ctx context.Context, id string, delta int) (model.InventoryItem, error) {
	var item model.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		item.Stock += delta
		if item.Stock < 0 {
			item.Stock = 0
		}
		return tx.Save(&item).Error
	})
	return item, err
}

func (s *gormStore) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := s.db.WithContext(ctx).Order("created_at").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *gormStore) CreateProfile(ctx context.Context, p model.Profile) error {
	return s.db.WithContext(ctx).Create(&p).Error
}

func (s *gormStore) UpdateProfile(ctx context.Context, p model.Profile) error {
	return s.db.WithContext(ctx).Save(&p).Error
}

func (s *gormStore) DeleteProfile(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.Profile{}, "id = ?", id).Error
}
