package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/trip"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "127.0.0.1:8000", "ftp://example.com", "http://"} {
		_, err := New(raw, time.Second)
		assert.Error(t, err, "base URL %q", raw)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://127.0.0.1:8000/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL())
}

func TestGeneratePlan(t *testing.T) {
	var gotReq trip.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathPlan, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(HeaderRequestID))
		assert.NoError(t, err, "request id should be a uuid")

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(trip.Result{
			TopDestinations: []trip.Destination{{Name: "杭州"}, {Name: "苏州"}},
			DailyPlan:       []trip.DayPlan{{Day: 1}},
			BudgetBreakdown: trip.Budget{Food: "20%"},
			Warnings:        []string{"bring an umbrella"},
		})
	})

	result, err := c.GeneratePlan(context.Background(), "tok", trip.Request{
		Origin: "北京", Destination: "杭州", StartDate: "2026-11-01", Days: 3, Travelers: 1,
		Constraints: []string{"a"}, Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "杭州", gotReq.Destination)
	assert.Equal(t, "en", gotReq.Language)
	assert.Len(t, result.TopDestinations, 2)
	assert.Equal(t, "20%", result.BudgetBreakdown.Food)
	assert.Equal(t, []string{"bring an umbrella"}, result.Warnings)
}

func TestGeneratePlan_ServerDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "LLM_API_KEY not set"}`))
	})

	_, err := c.GeneratePlan(context.Background(), "tok", trip.Request{})
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr), "want APIError, got %T", err)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "LLM_API_KEY not set", apiErr.Detail)
	assert.Equal(t, PathPlan, apiErr.Endpoint)
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail": " bad date "}`, "bad date"},
		{"validation list", `{"detail": [{"msg": "days too large"}, {"msg": "travelers too large"}]}`, "days too large; travelers too large"},
		{"missing", `{"error": "x"}`, ""},
		{"not json", `<html>oops</html>`, ""},
		{"object", `{"detail": {"x": 1}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Not authenticated"}`))
	})

	_, err := c.Preferences(context.Background(), "expired")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second)
	require.NoError(t, err)

	_, err = c.SearchHistory(context.Background(), "tok")
	var netErr *apperrors.NetworkError
	require.True(t, errors.As(err, &netErr), "want NetworkError, got %v", err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestRetry_OnlyRetryableGets(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		call      func(c *Client) error
		wantCalls int
		wantErr   bool
	}{
		{
			name:   "get retried after 503",
			status: http.StatusServiceUnavailable,
			call: func(c *Client) error {
				_, err := c.Preferences(context.Background(), "tok")
				return err
			},
			wantCalls: 2,
		},
		{
			name:   "get not retried after 401",
			status: http.StatusUnauthorized,
			call: func(c *Client) error {
				_, err := c.SearchHistory(context.Background(), "tok")
				return err
			},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:   "post never retried",
			status: http.StatusBadGateway,
			call: func(c *Client) error {
				_, err := c.GeneratePlan(context.Background(), "tok", trip.Request{})
				return err
			},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte(`{}`))
			})

			err := tt.call(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, int32(tt.wantCalls), calls.Load())
		})
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top_destinations": "nope"`))
	})

	_, err := c.GeneratePlan(context.Background(), "tok", trip.Request{})
	var netErr *apperrors.NetworkError
	assert.True(t, errors.As(err, &netErr), "decode failure should be a NetworkError, got %v", err)
}

func TestPreferences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathPreferences, r.URL.Path)
		_, _ = w.Write([]byte(`{"origin": "上海", "pace": null}`))
	})

	prefs, err := c.Preferences(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, prefs.Origin)
	assert.Equal(t, "上海", *prefs.Origin)
	assert.Nil(t, prefs.Pace)
}

func TestSavePreferences(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	origin := "北京"
	require.NoError(t, c.SavePreferences(context.Background(), "tok", trip.Preferences{Origin: &origin}))
	assert.Equal(t, "北京", got["origin"])
	_, hasPace := got["pace"]
	assert.False(t, hasPace, "nil fields should be omitted")
}

func TestSearchHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathSearchHistory, r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": 3, "query": {"origin": "A", "destination": "B", "start_date": "2026-11-01", "days": 2}, "result": null, "created_at": "2026-10-18T09:30:00Z"}]`))
	})

	entries, err := c.SearchHistory(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, trip.EntryID("3"), entries[0].ID)
	assert.Nil(t, entries[0].Result)
}

func TestSearchHistory_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	entries, err := c.SearchHistory(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDeleteSearchHistory(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	require.NoError(t, c.DeleteSearchHistory(context.Background(), "tok", "a b/c"))
	assert.Equal(t, PathSearchHistory+"/a%20b%2Fc", gotPath)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token": "t-1"}`))
	})

	resp, err := c.Login(context.Background(), Credentials{Email: "me@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.Token)
	assert.Equal(t, "me@example.com", resp.Email, "email falls back to the submitted one")

	_, err = c.Login(context.Background(), Credentials{Email: "me@example.com", Password: "wrong"})
	key, detail := apperrors.MessageKey(err)
	assert.Equal(t, apperrors.KeyGenericFailure, key)
	assert.Equal(t, "Invalid credentials", detail)
}

func TestCustomRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fixed-id", r.Header.Get(HeaderRequestID))
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second, WithRequestIDFunc(func() string { return "fixed-id" }))
	require.NoError(t, err)
	assert.NoError(t, c.Health(context.Background()))
}
