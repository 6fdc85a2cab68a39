// Package client provides the outbound HTTP fetcher shared by availability
// checks, coverage checks and remote suite loading.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the tool to DAIA servers. Some endpoints vary
// responses per client, so the string stays fixed across versions.
const DefaultUserAgent = "daiacheck"

const defaultTimeout = 30 * time.Second

// ErrStatus indicates the server answered with a non-2xx status code.
var ErrStatus = errors.New("unexpected response status")

// Client wraps http.Client with the headers every request carries.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a Client. A non-positive timeout falls back to the default,
// an empty userAgent falls back to DefaultUserAgent.
func New(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Fetch performs a GET against url and returns the response body. Requests
// identify the tool and disable intermediary caching so every run reflects
// live availability. Network errors and non-2xx statuses are both returned
// as errors; the caller decides whether they abort the run or count as a
// single failed assertion.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", url, err)
	}
	return body, nil
}
