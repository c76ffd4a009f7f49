package model

import "time"

// CalendarFeed is an external iCal source registered on a property. Its ID is
// the sourceId partition key for the reservations it produces; deleting a feed
// cascades to that partition.
type CalendarFeed struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	PropertyID string     `gorm:"index;size:64;not null" json:"propertyId"`
	Label      string     `gorm:"size:128" json:"label"`
	URL        string     `gorm:"size:1024;not null" json:"url"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
	CreatedAt  time.Time  `json:"-"`
}
