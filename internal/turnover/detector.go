// Package turnover derives cleaning-pressure views from the reservation
// collection. A critical day is a date on which a property has a checkout and
// another reservation checking in, leaving no buffer for the turnaround.
package turnover

import (
	"sort"
	"time"

	"limpiabnb-backend/internal/model"
)

// CriticalDay is a date with the set of properties whose turnovers collide on it.
type CriticalDay struct {
	Date        string   `json:"date"`
	Count       int      `json:"count"`
	PropertyIDs []string `json:"propertyIds"`
}

// DayStatus classifies a date relative to one reservation.
type DayStatus string

const (
	DayArrival   DayStatus = "arrival"
	DayDeparture DayStatus = "departure"
	DayOngoing   DayStatus = "ongoing"
	DayFree      DayStatus = "free"
)

// Today returns the current date in the sortable YYYY-MM-DD form.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// CriticalDays scans the collection for same-day checkout/check-in pairs per
// property, restricted to today-or-future dates, sorted by date ascending.
func CriticalDays(reservations []model.Reservation, today string) []CriticalDay {
	checkIns := make(map[string]map[string]bool) // propertyID -> check-in dates
	for _, r := range reservations {
		if checkIns[r.PropertyID] == nil {
			checkIns[r.PropertyID] = make(map[string]bool)
		}
		checkIns[r.PropertyID][r.CheckIn] = true
	}

	dates := make(map[string]map[string]bool) // date -> propertyIDs
	for _, r := range reservations {
		if !checkIns[r.PropertyID][r.CheckOut] {
			continue
		}
		if dates[r.CheckOut] == nil {
			dates[r.CheckOut] = make(map[string]bool)
		}
		dates[r.CheckOut][r.PropertyID] = true
	}

	days := make([]CriticalDay, 0, len(dates))
	for date, props := range dates {
		if date < today {
			continue
		}
		ids := make([]string, 0, len(props))
		for id := range props {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		days = append(days, CriticalDay{Date: date, Count: len(ids), PropertyIDs: ids})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// Classify reports how a reservation relates to a date. Check-in and
// check-out days are their own categories; occupancy is strictly between.
func Classify(r model.Reservation, date string) DayStatus {
	switch {
	case date == r.CheckIn:
		return DayArrival
	case date == r.CheckOut:
		return DayDeparture
	case date > r.CheckIn && date < r.CheckOut:
		return DayOngoing
	default:
		return DayFree
	}
}

// CheckOutsOn returns the reservations departing on the given date, the raw
// material for that day's cleaning list.
func CheckOutsOn(reservations []model.Reservation, date string) []model.Reservation {
	var out []model.Reservation
	for _, r := range reservations {
		if r.CheckOut == date {
			out = append(out, r)
		}
	}
	return out
}
