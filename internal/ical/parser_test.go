package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEvent = `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
DTSTART;VALUE=DATE:20240501
DTEND;VALUE=DATE:20240503
SUMMARY:Reserved - Airbnb (Jane Doe)
DESCRIPTION:Reservation Code: HM123ABC\nPhone Number (Last 4 Digits): 4321\nNumber of Guests: 3
END:VEVENT
END:VCALENDAR`

func TestParse_FullEvent(t *testing.T) {
	reservations := Parse(sampleEvent, "prop-1", "feed-1")
	require.Len(t, reservations, 1)

	r := reservations[0]
	assert.Equal(t, "real-feed-1-20240501-1", r.ID)
	assert.Equal(t, "prop-1", r.PropertyID)
	assert.Equal(t, "feed-1", r.SourceID)
	assert.Equal(t, "JANE DOE", r.GuestName)
	assert.Equal(t, "2024-05-01", r.CheckIn)
	assert.Equal(t, "2024-05-03", r.CheckOut)
	assert.Equal(t, "HM123ABC", r.ReservationCode)
	assert.Equal(t, "4321", r.PhoneSuffix)
	assert.Equal(t, 3, r.GuestCount)
	assert.Equal(t, "Reservation Code: HM123ABC", r.Observations)
	assert.Equal(t, "14:00", r.CheckInTime)
	assert.Equal(t, "11:00", r.CheckOutTime)
}

func TestParse_SkipsEventMissingEndDate(t *testing.T) {
	ics := `BEGIN:VCALENDAR
BEGIN:VEVENT
DTSTART;VALUE=DATE:20240601
SUMMARY:Reserved - Airbnb (Broken Event)
END:VEVENT
BEGIN:VEVENT
DTSTART:20240610
DTEND:20240612
SUMMARY:Reserved - Airbnb (Valid Guest)
END:VEVENT
END:VCALENDAR`

	reservations := Parse(ics, "prop-1", "feed-1")
	require.Len(t, reservations, 1)
	assert.Equal(t, "VALID GUEST", reservations[0].GuestName)
	assert.Equal(t, "2024-06-10", reservations[0].CheckIn)
}

func TestParse_GuestNameDerivation(t *testing.T) {
	testCases := []struct {
		name     string
		summary  string
		expected string
	}{
		{"airbnb wrapper", "Reserved - Airbnb (Jane Doe)", "JANE DOE"},
		{"owner block", "Not available", "BLOQUEO PROPIETARIO"},
		{"owner block mixed case", "Airbnb (Not Available)", "BLOQUEO PROPIETARIO"},
		{"plain summary", "John Smith", "JOHN SMITH"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ics := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART:20240701\nDTEND:20240702\nSUMMARY:" + tc.summary + "\nEND:VEVENT"
			reservations := Parse(ics, "p", "f")
			require.Len(t, reservations, 1)
			assert.Equal(t, tc.expected, reservations[0].GuestName)
		})
	}
}

func TestParse_NoSummaryDefaultsToExternal(t *testing.T) {
	ics := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART:20240701\nDTEND:20240702\nEND:VEVENT"
	reservations := Parse(ics, "p", "f")
	require.Len(t, reservations, 1)
	assert.Equal(t, "RESERVA EXTERNA", reservations[0].GuestName)
	assert.Equal(t, 1, reservations[0].GuestCount)
	assert.Empty(t, reservations[0].ReservationCode)
}

func TestParse_EmptyDocument(t *testing.T) {
	assert.Empty(t, Parse("BEGIN:VCALENDAR\nEND:VCALENDAR", "p", "f"))
	assert.Empty(t, Parse("", "p", "f"))
}
