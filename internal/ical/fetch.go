// Package ical fetches and parses upstream iCalendar feeds and extracts
// reservation details from their free-form text. It depends on nothing but
// the network; persistence lives elsewhere.
package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads raw iCal feeds over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher whose requests are bounded by the given
// timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues one GET for the feed URL and returns the raw body. Transport
// errors, timeouts and non-2xx responses are returned as errors; no caching
// is performed.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("calendar returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar body: %w", err)
	}

	return body, nil
}
