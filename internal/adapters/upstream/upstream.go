// Package upstream holds one adapter per external OSINT feed. Every adapter
// follows the same contract: issue a scrubbed outbound call, record exactly
// one health-state write for the attempt, and normalize the vendor response
// into a stable record shape. Upstream failure is never fatal for the caller;
// handlers translate adapter errors into empty 200 payloads.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tkaczmarek/geoscope/internal/pkg/metrics"
)

// ScrubbedUserAgent is the fixed, non-identifying agent string sent on every
// outbound request. No request carries the caller's real IP or forwarding
// chain.
const ScrubbedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// client is the shared outbound HTTP plumbing for all adapters. The feed
// label drives per-feed fetch metrics.
type client struct {
	feed string
	http *http.Client
}

func newClient(feed string, timeout time.Duration) *client {
	return &client{feed: feed, http: &http.Client{Timeout: timeout}}
}

// get issues a GET with the scrubbed user agent and returns the body.
// Non-2xx responses are errors.
func (c *client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ScrubbedUserAgent)
	return c.do(req)
}

// postForm issues a form-encoded POST (Overpass interpreter style).
func (c *client) postForm(ctx context.Context, url, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ScrubbedUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FeedFetchDuration.WithLabelValues(c.feed).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedFetchErrors.WithLabelValues(c.feed).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FeedFetchErrors.WithLabelValues(c.feed).Inc()
		return nil, fmt.Errorf("upstream status %d for %s", resp.StatusCode, req.URL)
	}
	return io.ReadAll(resp.Body)
}
