// Package client talks to the collection backend. It turns serialized
// filter state into listing requests, runs the import lookups and maps every
// failure onto *Error. It never retries; retry policy belongs to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isayev/coinstack-sub001/internal/metrics"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client is a backend API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and decodes a 2xx JSON body into out. endpoint is a
// stable label for metrics and logs.
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return requestError(endpoint, fmt.Errorf("encode: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return requestError(endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(endpoint, string(KindNetwork), time.Since(start))
		c.log.Warn("Backend unreachable", zap.String("endpoint", endpoint), zap.Error(err))
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := responseError(resp)
		metrics.ObserveBackend(endpoint, string(apiErr.Kind), time.Since(start))
		c.log.Info("Backend returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
			zap.Duration("retry_after", apiErr.RetryAfter))
		return apiErr
	}

	metrics.ObserveBackend(endpoint, "ok", time.Since(start))
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: "The server returned an unreadable response.",
			Err:     err,
		}
	}
	return nil
}
