package ical

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"limpiabnb-backend/internal/model"
)

var (
	dtStartRe     = regexp.MustCompile(`DTSTART(?:;VALUE=DATE)?:(\d{8})`)
	dtEndRe       = regexp.MustCompile(`DTEND(?:;VALUE=DATE)?:(\d{8})`)
	summaryRe     = regexp.MustCompile(`SUMMARY:(.*)`)
	descriptionRe = regexp.MustCompile(`DESCRIPTION:(.*)`)

	codeRe   = regexp.MustCompile(`(?i)Reservation Code:\s*([A-Z0-9]+)`)
	phoneRe  = regexp.MustCompile(`(?i)Phone Number \(Last 4 Digits\):\s*(\d+)`)
	guestsRe = regexp.MustCompile(`(?i)Number of Guests:\s*(\d+)`)
)

// Guest-name sentinels. Provider blocks show up as "Not available" summaries;
// they are owner blocks, not guest stays, but still occupy the calendar.
const (
	externalGuestName = "Reserva Externa"
	ownerBlockName    = "BLOQUEO PROPIETARIO"
)

// Parse extracts reservations from a raw calendar document, scoped to one
// property and one feed. Events missing either date are skipped; an empty
// result is valid.
func Parse(icsText, propertyID, feedID string) []model.Reservation {
	var reservations []model.Reservation
	events := strings.Split(icsText, "BEGIN:VEVENT")

	for i := 1; i < len(events); i++ {
		segment := events[i]

		startMatch := dtStartRe.FindStringSubmatch(segment)
		endMatch := dtEndRe.FindStringSubmatch(segment)
		if startMatch == nil || endMatch == nil {
			continue
		}

		start := startMatch[1]
		end := endMatch[1]

		guestName := externalGuestName
		if m := summaryRe.FindStringSubmatch(segment); m != nil {
			guestName = deriveGuestName(m[1])
		}
		if strings.Contains(strings.ToUpper(guestName), "NOT AVAILABLE") {
			guestName = ownerBlockName
		}

		var code, phoneSuffix, observations string
		guests := 1
		if m := descriptionRe.FindStringSubmatch(segment); m != nil {
			desc := strings.ReplaceAll(m[1], `\n`, "\n")
			desc = strings.ReplaceAll(desc, `\`, "")

			if cm := codeRe.FindStringSubmatch(desc); cm != nil {
				code = cm[1]
			}
			if pm := phoneRe.FindStringSubmatch(desc); pm != nil {
				phoneSuffix = pm[1]
			}
			if gm := guestsRe.FindStringSubmatch(desc); gm != nil {
				if n, err := strconv.Atoi(gm[1]); err == nil {
					guests = n
				}
			}
			observations = strings.SplitN(desc, "\n", 2)[0]
		}

		reservations = append(reservations, model.Reservation{
			ID:              fmt.Sprintf("real-%s-%s-%d", feedID, start, i),
			PropertyID:      propertyID,
			SourceID:        feedID,
			GuestName:       strings.ToUpper(guestName),
			GuestCount:      guests,
			ReservationCode: code,
			PhoneSuffix:     phoneSuffix,
			Observations:    observations,
			CheckIn:         dashDate(start),
			CheckOut:        dashDate(end),
			CheckInTime:     model.DefaultCheckInTime,
			CheckOutTime:    model.DefaultCheckOutTime,
			Status:          model.StatusUpcoming,
		})
	}

	return reservations
}

// deriveGuestName strips the provider boilerplate Airbnb wraps around the
// guest's name in SUMMARY lines.
func deriveGuestName(summary string) string {
	s := strings.TrimSpace(summary)
	s = strings.Replace(s, "Reserved - ", "", 1)
	s = strings.Replace(s, "Airbnb (", "", 1)
	s = strings.Replace(s, ")", "", 1)
	return strings.TrimSpace(s)
}

// dashDate converts a compact YYYYMMDD date to the dashed YYYY-MM-DD form.
func dashDate(compact string) string {
	return compact[0:4] + "-" + compact[4:6] + "-" + compact[6:8]
}
