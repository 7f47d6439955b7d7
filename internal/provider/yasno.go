// Package provider holds the client for the structured Yasno planned-outages
// API, the secondary source the feed-derived schedule is reconciled against.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/olehvh/cek-outage-api/internal/models"
	appErrors "github.com/olehvh/cek-outage-api/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client fetches per-group schedules from the provider API. The payload is
// treated as opaque apart from the per-day status field the reconciler reads.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a provider client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchSchedule returns the provider's schedule for one group. Connectivity
// problems and non-200 responses are upstream errors; the caller treats them
// as "secondary source absent".
func (c *Client) FetchSchedule(ctx context.Context, group string) (*models.GroupSchedule, error) {
	endpoint := fmt.Sprintf("%s/schedule/%s", c.baseURL, url.PathEscape(group))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build provider request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "provider fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "provider has no schedule for group")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read provider body")
	}

	var gs models.GroupSchedule
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode provider payload")
	}

	return &gs, nil
}
