// Package feed reconstructs per-group outage schedules from the public CEK
// Telegram channel: it fetches the channel page, extracts the announcement
// messages and replays them chronologically into a schedule.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/olehvh/cek-outage-api/pkg/errors"
)

// DefaultURL is the public channel page the announcements are scraped from.
const DefaultURL = "https://t.me/s/cek_info"

const defaultTimeout = 60 * time.Second

// Fetcher downloads the raw channel page. The whole document is buffered
// before parsing; there is no streaming consumption.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher constructs a fetcher for the given channel URL.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the channel page body. Connectivity problems and non-200
// responses are reported as upstream errors; the caller treats them as
// "primary source absent", not as fatal conditions.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build feed request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "feed fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("feed returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read feed body")
	}

	return string(body), nil
}
