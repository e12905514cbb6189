// Package api is the typed HTTP client for the portal backend.
//
// Every call goes through Client.Do, which attaches the bearer token of the
// active session, tags the request with an X-Request-ID, applies the default
// 45 second timeout and converts non-2xx responses into *Error values. The
// client never retries; callers surface the error and let the user refresh.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fbrportal/internal/config"
	"fbrportal/internal/logger"
)

// TokenSource yields the bearer token of the active session, or "" when no
// session is active.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client is the HTTP client for the portal backend.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	timeout    time.Duration
	headers    map[string]string
	log        zerolog.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets the bearer token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a client for the backend described by cfg.
func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    base,
		timeout:    cfg.Timeout,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "fbrportal-cli/1.0",
		},
		log: logger.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource swaps the bearer token provider.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers the hook run when the backend revokes the session
// (401 with detail "Unauthorized"). Only one hook is kept.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// BaseURL returns the backend origin including the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request is a single backend call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Timeout time.Duration // replaces the client default when positive
}

// Response is a completed backend call with a 2xx status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Do executes req. Transport failures wrap ErrTransport; non-2xx responses
// return *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u := c.buildURL(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("api: marshal %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}

	requestID := uuid.NewString()
	c.setHeaders(httpReq, requestID, req.Body != nil)
	log := logger.WithRequestID(c.log, requestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		log.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Dur("duration", duration).
			Msg("Request failed")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("api: %s %s: %w", req.Method, req.Path, ctx.Err())
		}
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("read body: %w", err)}
	}

	log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Dur("duration", duration).
		Msg("Request completed")

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := newError(req.Method, req.Path, httpResp.StatusCode, raw)
		if apiErr.SessionRevoked() {
			log.Warn().Str("path", req.Path).Msg("Backend revoked the session")
			c.fireUnauthorized()
		}
		return nil, apiErr
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
		Duration:   duration,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query})
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) setHeaders(req *http.Request, requestID string, hasBody bool) {
	c.mu.RLock()
	tokens := c.tokens
	c.mu.RUnlock()

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID)
	if tokens != nil {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// decode unmarshals a response body into T. An empty body yields the zero
// value.
func decode[T any](resp *Response) (T, error) {
	var out T
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("api: decode response: %w", err)
	}
	return out, nil
}

// decodeList unmarshals a JSON array. Any other body shape is treated as an
// empty collection.
func decodeList[T any](resp *Response) ([]T, error) {
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("api: decode list: %w", err)
	}
	return out, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](resp)
}

func getList[T any](ctx context.Context, c *Client, req Request) ([]T, error) {
	req.Method = http.MethodGet
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp)
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, body interface{}) (T, error) {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](resp)
}
