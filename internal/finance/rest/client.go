// Package rest implements the finance ports against the finance HTTP API.
//
// Every request carries the bearer credential of the Client's token source.
// The credential is injected explicitly: a Client without a token source sends
// unauthenticated requests, and WithTokenSource derives a Client acting for
// another user without touching the original.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"finboard/internal/finance"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the finance API.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: finance API returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: finance API returned %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the API rejected the credential.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

var ErrMissingBaseURL = errors.New("finance API base URL is required")

type Client struct {
	baseURL *url.URL
	base    http.RoundTripper
	timeout time.Duration
	tokens  oauth2.TokenSource
	http    *http.Client
}

var _ finance.Backend = (*Client)(nil)

type Option func(*Client)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// WithTokens sets the credential source used for every request.
func WithTokens(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse finance API URL: %w", err)
	}

	c := &Client{
		baseURL: u,
		base:    http.DefaultTransport,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = c.newHTTPClient()
	return c, nil
}

// WithTokenSource returns a copy of c that authenticates with ts.
func (c *Client) WithTokenSource(ts oauth2.TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	cp.http = cp.newHTTPClient()
	return &cp
}

// BearerToken is a static token source for an already issued access token.
func BearerToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

func (c *Client) newHTTPClient() *http.Client {
	rt := c.base
	if c.tokens != nil {
		rt = &oauth2.Transport{Source: c.tokens, Base: c.base}
	}
	return &http.Client{Transport: rt, Timeout: c.timeout}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
// It never retries.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if err := decodeEnvelope(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func newAPIError(op string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// decodeEnvelope accepts both a bare payload and one wrapped as {"data": ...}.
func decodeEnvelope(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return err
		}
		if data, ok := env["data"]; ok && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return json.Unmarshal(data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}
