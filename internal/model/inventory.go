package model

import "time"

// InventoryItem is a consumable tracked per unit with a restock threshold.
type InventoryItem struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Category  string    `gorm:"size:32" json:"category"` // cleaning, consumable, linen
	Stock     int       `gorm:"not null" json:"stock"`
	MinStock  int       `gorm:"not null" json:"minStock"`
	Unit      string    `gorm:"size:32" json:"unit"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// LowStock reports whether the item is at or below its restock threshold.
func (i InventoryItem) LowStock() bool {
	return i.Stock <= i.MinStock
}
