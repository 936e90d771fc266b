// Package api is the HTTP client for the planning backend. Every call sends
// JSON, carries an X-Request-ID, and maps failures into the error taxonomy:
// transport problems become NetworkError, non-2xx answers become APIError
// carrying the backend's detail string.
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
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// Endpoint paths.
const (
	PathPlan          = "/api/plan"
	PathPreferences   = "/api/me/preferences"
	PathSearchHistory = "/api/me/search-history"
	PathLogin         = "/api/auth/login"
	PathHealth        = "/health"
)

// HeaderRequestID carries the per-call correlation id.
const HeaderRequestID = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is a successful login answer.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Client talks to the planning backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	logger    *logging.Logger
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestIDFunc overrides request id generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// New creates a Client for baseURL. timeout bounds every call; zero means no
// client-side timeout beyond the caller's context.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout},
		logger:    logging.NopLogger(),
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithOperation("api")
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GeneratePlan posts a plan request and returns the computed result.
func (c *Client) GeneratePlan(ctx context.Context, token string, req trip.Request) (*trip.Result, error) {
	var result trip.Result
	if err := c.do(ctx, http.MethodPost, PathPlan, token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Preferences fetches the signed-in user's saved preferences.
func (c *Client) Preferences(ctx context.Context, token string) (trip.Preferences, error) {
	var prefs trip.Preferences
	if err := c.do(ctx, http.MethodGet, PathPreferences, token, nil, &prefs); err != nil {
		return trip.Preferences{}, err
	}
	return prefs, nil
}

// SavePreferences replaces the signed-in user's saved preferences.
func (c *Client) SavePreferences(ctx context.Context, token string, prefs trip.Preferences) error {
	return c.do(ctx, http.MethodPut, PathPreferences, token, prefs, nil)
}

// SearchHistory fetches the user's most recent searches, newest first.
func (c *Client) SearchHistory(ctx context.Context, token string) ([]trip.HistoryEntry, error) {
	var entries []trip.HistoryEntry
	if err := c.do(ctx, http.MethodGet, PathSearchHistory, token, nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []trip.HistoryEntry{}
	}
	return entries, nil
}

// DeleteSearchHistory deletes one history entry. A 2xx answer confirms deletion.
func (c *Client) DeleteSearchHistory(ctx context.Context, token string, id trip.EntryID) error {
	path := PathSearchHistory + "/" + url.PathEscape(string(id))
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.Email == "" {
		resp.Email = creds.Email
	}
	return resp, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, PathHealth, "", nil, nil)
}

// getAttempts is how many times a GET is sent when the failure is retryable.
const getAttempts = 2

// do sends one call. GETs are idempotent and are sent again once after a
// retryable failure (transport error or 5xx).
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts = getAttempts
	}

	var err error
	for i := 1; i <= attempts; i++ {
		err = c.send(ctx, method, path, token, body, out)
		if err == nil || !errors.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		if i < attempts {
			c.logger.Debug("retrying request", "method", method, "path", path, "attempt", i+1, "error", err)
		}
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	id := c.requestID()
	req.Header.Set(HeaderRequestID, id)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", id, "error", err)
		return errors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"request_id", id,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewAPIError(path, resp.StatusCode, parseDetail(raw))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.NewNetworkError(path, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// parseDetail extracts the `detail` field of an error body. The backend sends
// either a string or, for request validation failures, a list of objects with
// a `msg` field.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
