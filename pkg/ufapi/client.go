package ufapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// BasePath is the fixed mount point of the series API under its origin.
const BasePath = "/api/uf"

// Client issues queries against the UF series API. Implementations make
// exactly one request per Fetch call: no retries, no caching, no
// deduplication.
type Client interface {
	Fetch(ctx context.Context, target Target) (*Payload, error)
}

// APIError is a non-2xx response. Message carries the backend's error field
// when the body provided one, otherwise the generic status fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithBasePath overrides the default API mount point.
func WithBasePath(p string) Option {
	return func(c *httpClient) {
		c.base = p
	}
}

type httpClient struct {
	origin string
	base   string
	http   *http.Client
}

// NewClient creates a client for the series API served at origin, e.g.
// "http://localhost:5000".
func NewClient(origin string, opts ...Option) Client {
	c := &httpClient{
		origin: origin,
		base:   BasePath,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, target Target) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+c.base+target.Path(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "ufapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ufapi: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ufapi: read response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return DecodePayload(body)
}

// newAPIError extracts the backend's error message when the body carries a
// non-empty one; anything else falls back to the generic status line.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: status, Message: payload.Error}
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}
