package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source partitions for reservations that do not come from a calendar feed.
// Every other SourceID value is the ID of a CalendarFeed.
const (
	SourceManual = "manual"
)

// ReservationStatus is the lifecycle state of a stay.
type ReservationStatus string

const (
	StatusUpcoming  ReservationStatus = "upcoming"
	StatusOngoing   ReservationStatus = "ongoing"
	StatusCompleted ReservationStatus = "completed"
)

// Default clock times applied when a reservation carries none.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "11:00"
)

// Reservation represents a booked stay at a property. CheckIn/CheckOut are
// stored as sortable YYYY-MM-DD strings; dangling PropertyID references are
// tolerated and filtered by consumers.
type Reservation struct {
	ID              string            `gorm:"primaryKey;size:128" json:"id"`
	PropertyID      string            `gorm:"index;size:64;not null" json:"propertyId"`
	SourceID        string            `gorm:"index;size:64;not null" json:"sourceId"`
	GuestName       string            `gorm:"size:256" json:"guestName"`
	GuestCount      int               `json:"guestCount"`
	ReservationCode string            `gorm:"index;size:64" json:"reservationCode"`
	PhoneSuffix     string            `gorm:"size:16" json:"phoneSuffix"`
	Observations    string            `json:"observations"`
	CheckIn         string            `gorm:"size:10;not null" json:"checkIn"`
	CheckOut        string            `gorm:"size:10;not null" json:"checkOut"`
	CheckInTime     string            `gorm:"size:5" json:"checkInTime"`
	CheckOutTime    string            `gorm:"size:5" json:"checkOutTime"`
	Status          ReservationStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt       time.Time         `json:"-"`
	UpdatedAt       time.Time         `json:"-"`
}

// ApplyDefaults fills the fields a sparse reservation may omit: a synthesized
// ID, the manual source partition, upcoming status and the house check times.
func (r *Reservation) ApplyDefaults() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SourceID == "" {
		r.SourceID = SourceManual
	}
	if r.Status == "" {
		r.Status = StatusUpcoming
	}
	if r.CheckInTime == "" {
		r.CheckInTime = DefaultCheckInTime
	}
	if r.CheckOutTime == "" {
		r.CheckOutTime = DefaultCheckOutTime
	}
}

// ValidateDates rejects zero or negative length stays. Feed-parsed events are
// stored as-is to mirror the remote calendar; this check guards manual entry.
func (r *Reservation) ValidateDates() error {
	if r.CheckIn == "" || r.CheckOut == "" {
		return fmt.Errorf("reservation requires checkIn and checkOut dates")
	}
	if r.CheckOut <= r.CheckIn {
		return fmt.Errorf("checkOut %q must be after checkIn %q", r.CheckOut, r.CheckIn)
	}
	return nil
}
