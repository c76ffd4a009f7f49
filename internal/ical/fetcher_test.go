package ical

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCalendar = "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART:20240501\nDTEND:20240503\nEND:VEVENT\nEND:VCALENDAR"

func TestFetch_FallsBackToSecondRelay(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("url"))
		w.Write([]byte(validCalendar))
	}))
	defer working.Close()

	f := NewFetcher([]string{
		failing.URL + "/?url={url}",
		working.URL + "/?url={url}",
	}, 2*time.Second)

	body, err := f.Fetch(context.Background(), "https://calendar.example.com/feed.ics")
	require.NoError(t, err)
	assert.Equal(t, validCalendar, body)
}

func TestFetch_SkipsBodyWithoutCalendarMarker(t *testing.T) {
	htmlRelay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer htmlRelay.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validCalendar))
	}))
	defer working.Close()

	f := NewFetcher([]string{
		htmlRelay.URL + "/?url={url}",
		working.URL + "/?url={url}",
	}, 2*time.Second)

	body, err := f.Fetch(context.Background(), "https://calendar.example.com/feed.ics")
	require.NoError(t, err)
	assert.Equal(t, validCalendar, body)
}

func TestFetch_AllRelaysFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	f := NewFetcher([]string{
		failing.URL + "/?url={url}",
		failing.URL + "/other?url={url}",
	}, 2*time.Second)

	_, err := f.Fetch(context.Background(), "https://calendar.example.com/feed.ics")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyncUnavailable))
}

func TestFetch_NoRelaysConfigured(t *testing.T) {
	f := NewFetcher(nil, time.Second)
	_, err := f.Fetch(context.Background(), "https://calendar.example.com/feed.ics")
	assert.True(t, errors.Is(err, ErrSyncUnavailable))
}

func TestRelayURL(t *testing.T) {
	assert.Equal(t,
		"https://relay.example/raw?url=https%3A%2F%2Fhost%2Fcal.ics",
		RelayURL("https://relay.example/raw?url={url}", "https://host/cal.ics"))
	assert.Equal(t,
		"https://relay.example/?https%3A%2F%2Fhost%2Fcal.ics",
		RelayURL("https://relay.example/?", "https://host/cal.ics"))
}
