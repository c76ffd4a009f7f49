package model

import "time"

// Property represents a rental listing managed by the host.
type Property struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	InternalName string    `gorm:"size:256" json:"internalName"`
	Type         string    `gorm:"size:16" json:"type"` // "room" or "whole"
	Address      string    `gorm:"size:512" json:"address"`
	ImageURL     string    `json:"imageUrl"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	// Associations
	Feeds []CalendarFeed `gorm:"foreignKey:PropertyID" json:"feeds,omitempty"`
}

// Label returns the name hosts use day to day.
func (p Property) Label() string {
	if p.InternalName != "" {
		return p.InternalName
	}
	return p.Name
}
