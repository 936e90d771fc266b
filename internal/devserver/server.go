// Package devserver is a local stand-in for the planning backend. It serves
// the endpoints the client calls with deterministic stub plans, keeps
// accounts, preferences and search history in memory, and exposes request
// metrics for Prometheus.
package devserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Iron-Ham/etravel/internal/api"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// HistoryLimit is the number of searches kept per user.
const HistoryLimit = 10

// Server-reported details. The client maps these to localized text.
const (
	DetailInvalidCredentials = "Invalid credentials"
	DetailNotAuthenticated   = "Not authenticated"
	DetailInvalidToken       = "Invalid token"
	DetailHistoryNotFound    = "Search history not found"
	DetailPastStartDate      = "start_date must be today or later"
)

const userKey = "devserver.user"

// Options configures a Server.
type Options struct {
	// CORSOrigins lists browser origins allowed to call the server.
	CORSOrigins []string
	Logger      *logging.Logger
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

type account struct {
	password    string
	preferences trip.Preferences
	history     []trip.HistoryEntry
}

// Server is the stub backend.
type Server struct {
	engine   *gin.Engine
	logger   *logging.Logger
	metrics  *metrics
	registry *prometheus.Registry
	now      func() time.Time

	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]string
}

// New creates a Server with its routes registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	registry := prometheus.NewRegistry()
	s := &Server{
		engine:   gin.New(),
		logger:   opts.Logger.WithOperation("devserver"),
		metrics:  newMetrics(registry),
		registry: registry,
		now:      opts.Now,
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}

	s.engine.Use(gin.Recovery(), s.metrics.middleware(), s.requestLogger())
	if len(opts.CORSOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", api.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET(api.PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	s.engine.POST(api.PathLogin, s.login)

	authed := s.engine.Group("/api", s.requireAuth)
	{
		authed.POST(strings.TrimPrefix(api.PathPlan, "/api"), s.plan)
		authed.GET(strings.TrimPrefix(api.PathPreferences, "/api"), s.getPreferences)
		authed.PUT(strings.TrimPrefix(api.PathPreferences, "/api"), s.putPreferences)
		authed.GET(strings.TrimPrefix(api.PathSearchHistory, "/api"), s.listHistory)
		authed.DELETE(strings.TrimPrefix(api.PathSearchHistory, "/api")+"/:id", s.deleteHistory)
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.logger.Info("devserver shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader(api.HeaderRequestID),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// requireAuth resolves the bearer token to an account email.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		abort(c, http.StatusUnauthorized, DetailNotAuthenticated)
		return
	}

	s.mu.Lock()
	email, found := s.tokens[token]
	s.mu.Unlock()
	if !found {
		abort(c, http.StatusUnauthorized, DetailInvalidToken)
		return
	}
	c.Set(userKey, email)
	c.Next()
}

// accountFor returns the account of the authenticated request. Callers hold s.mu.
func (s *Server) accountFor(c *gin.Context) *account {
	return s.accounts[c.GetString(userKey)]
}

// login signs an email in. An unknown email is registered with the given
// password; a known one must match it.
func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		abort(c, http.StatusUnauthorized, DetailInvalidCredentials)
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[email]
	if !ok {
		acct = &account{password: creds.Password}
		s.accounts[email] = acct
	}
	if acct.password != creds.Password {
		s.mu.Unlock()
		abort(c, http.StatusUnauthorized, DetailInvalidCredentials)
		return
	}
	token := uuid.NewString()
	s.tokens[token] = email
	s.mu.Unlock()

	s.logger.WithUser(email).Info("user signed in", "registered", !ok)
	c.JSON(http.StatusOK, api.AuthResponse{Token: token, Email: email})
}

func (s *Server) plan(c *gin.Context) {
	var req trip.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	start, err := time.ParseInLocation(trip.DateLayout, req.StartDate, time.Local)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, "start_date must be YYYY-MM-DD")
		return
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if start.Before(today) {
		abort(c, http.StatusBadRequest, DetailPastStartDate)
		return
	}
	if req.Days < 1 || req.Travelers < 1 {
		abort(c, http.StatusUnprocessableEntity, "days and travelers must be at least 1")
		return
	}

	result := stubPlan(req)
	s.metrics.plans.Inc()

	s.mu.Lock()
	acct := s.accountFor(c)
	entry := trip.HistoryEntry{
		ID:        trip.EntryID(uuid.NewString()),
		Query:     req,
		Result:    result,
		CreatedAt: trip.Timestamp{Time: now.UTC()},
	}
	acct.history = append([]trip.HistoryEntry{entry}, acct.history...)
	if len(acct.history) > HistoryLimit {
		acct.history = acct.history[:HistoryLimit]
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, result)
}

func (s *Server) getPreferences(c *gin.Context) {
	s.mu.Lock()
	prefs := s.accountFor(c).preferences
	s.mu.Unlock()
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) putPreferences(c *gin.Context) {
	var prefs trip.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	s.accountFor(c).preferences = prefs
	s.mu.Unlock()
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) listHistory(c *gin.Context) {
	s.mu.Lock()
	entries := append([]trip.HistoryEntry{}, s.accountFor(c).history...)
	s.mu.Unlock()
	s.metrics.historyOp.WithLabelValues("list").Inc()
	c.JSON(http.StatusOK, entries)
}

func (s *Server) deleteHistory(c *gin.Context) {
	id := trip.EntryID(c.Param("id"))

	s.mu.Lock()
	acct := s.accountFor(c)
	idx := -1
	for i, e := range acct.history {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		abort(c, http.StatusNotFound, DetailHistoryNotFound)
		return
	}
	acct.history = append(acct.history[:idx:idx], acct.history[idx+1:]...)
	s.mu.Unlock()

	s.metrics.historyOp.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
