// Package transport is the authenticated HTTP client used to capture API
// responses.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http  *http.Client
	auth  Authenticator
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a new transport client that authenticates with token.
func New(auth Authenticator, token string, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:  &http.Client{Timeout: DefaultHTTPTimeout},
		auth:  auth,
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// PostJSON posts body to url and returns the status code and the full
// response body. The response is closed before returning.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &errors.APIError{Endpoint: url, Message: "cannot build request", Err: err}
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, nil, &errors.APIError{Endpoint: url, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.WrapIO("read", "response body", err)
	}

	return resp.StatusCode, data, nil
}

// JoinURL appends endpoint to base with exactly one slash between them.
func JoinURL(base, endpoint string) string {
	if endpoint == "" {
		return base
	}
	if base == "" {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
