// Package supadata is a thin client for the transcript provider API.
// It is stateless: every call is one HTTP round trip, nothing is cached,
// and no retries are performed. Retry policy, if any, belongs to callers.
package supadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the production provider endpoint root.
const DefaultBaseURL = "https://api.supadata.ai/v1/youtube"

// APIError is a non-2xx provider response. Callers surface the status
// and raw body verbatim; it is reported per item and never aborts a batch.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the provider over HTTP with an x-api-key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logrus.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the round-trip timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient creates a provider client using apiKey for every request.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithKey returns a copy of the client authenticated with a different
// API key. The copy shares the underlying HTTP client.
func (c *Client) WithKey(apiKey string) *Client {
	cp := *c
	cp.apiKey = apiKey
	return &cp
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Provider request failed")
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
