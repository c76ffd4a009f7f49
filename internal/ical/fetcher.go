package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSyncUnavailable is returned when every relay failed to produce a
// calendar document for a feed.
var ErrSyncUnavailable = errors.New("all sync relays failed")

// calendarMarker must be present in a response body for it to count as a
// calendar document; relays happily return HTML error pages with status 200.
const calendarMarker = "BEGIN:VCALENDAR"

// relayPlaceholder marks where the query-escaped feed URL goes in a relay
// template. Templates without it get the escaped URL appended.
const relayPlaceholder = "{url}"

// Fetcher retrieves calendar documents through an ordered list of CORS
// relays. Third-party calendar hosts commonly refuse direct cross-origin
// reads, and any single relay may be rate-limited or down.
type Fetcher struct {
	client  *http.Client
	relays  []string
	timeout time.Duration
}

// NewFetcher creates a fetcher over the given relay templates. Each relay
// request is bounded by timeout.
func NewFetcher(relays []string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{},
		relays:  relays,
		timeout: timeout,
	}
}

// Fetch tries each relay in order and returns the first response body that
// carries the calendar marker. Relay failures and marker-less bodies advance
// silently to the next relay; exhausting the list yields ErrSyncUnavailable
// wrapping the last underlying failure.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	var lastErr error
	for _, relay := range f.relays {
		proxied := RelayURL(relay, feedURL)
		body, err := f.fetchOnce(ctx, proxied)
		if err != nil {
			lastErr = err
			log.Printf("Relay failed, trying next: %v", err)
			continue
		}
		if !strings.Contains(body, calendarMarker) {
			log.Printf("Relay %q returned a body without %s, trying next", proxied, calendarMarker)
			continue
		}
		return body, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrSyncUnavailable, lastErr)
	}
	return "", ErrSyncUnavailable
}

// RelayURL builds the proxied request URL for a relay template.
func RelayURL(template, feedURL string) string {
	escaped := url.QueryEscape(feedURL)
	if strings.Contains(template, relayPlaceholder) {
		return strings.ReplaceAll(template, relayPlaceholder, escaped)
	}
	return template + escaped
}

func (f *Fetcher) fetchOnce(ctx context.Context, proxied string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, proxied, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
