// Package history caches the signed-in user's recent plan searches.
//
// The backend is the source of truth. The cache is only ever replaced
// wholesale by a successful Refresh, or shrunk by a Delete the backend has
// confirmed; it is never edited optimistically.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// MaxEntries is the most entries the cache ever holds.
const MaxEntries = 10

// Backend is the subset of the API client the cache needs.
type Backend interface {
	SearchHistory(ctx context.Context, token string) ([]trip.HistoryEntry, error)
	DeleteSearchHistory(ctx context.Context, token string, id trip.EntryID) error
}

// Confirmer asks the user to approve deleting entry.
type Confirmer func(entry trip.HistoryEntry) bool

// Cache is a capped, server-backed list of history entries. It is safe for
// concurrent use.
type Cache struct {
	mu          sync.RWMutex
	backend     Backend
	logger      *logging.Logger
	limit       int
	entries     []trip.HistoryEntry
	refreshedAt time.Time
	now         func() time.Time
	// epoch increments on Clear; a refresh started before it is dropped.
	epoch uint64
}

// New creates an empty cache. limit is clamped to 1..MaxEntries.
func New(backend Backend, limit int, logger *logging.Logger) *Cache {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Cache{
		backend: backend,
		logger:  logger.WithOperation("history"),
		limit:   limit,
		now:     time.Now,
	}
}

// Refresh replaces the cache with the backend's current list, truncated to the
// limit in server order. On failure the previous cache is kept and the error
// is returned for callers that care; most treat it as best effort. A refresh
// that completes after Clear is discarded.
func (c *Cache) Refresh(ctx context.Context, token string) error {
	c.mu.RLock()
	epoch := c.epoch
	c.mu.RUnlock()

	entries, err := c.backend.SearchHistory(ctx, token)
	if err != nil {
		c.logger.Debug("refresh failed, keeping cached entries", "error", err)
		return err
	}
	if len(entries) > c.limit {
		entries = entries[:c.limit]
	}

	fresh := make([]trip.HistoryEntry, len(entries))
	copy(fresh, entries)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.logger.Debug("refresh dropped, cache was cleared meanwhile")
		return nil
	}
	c.entries = fresh
	c.refreshedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("refreshed", "count", len(fresh))
	return nil
}

// Entries returns a snapshot of the cached entries, most recent first.
func (c *Cache) Entries() []trip.HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]trip.HistoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RefreshedAt returns when the cache was last replaced; zero if never.
func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// Get looks up an entry by id.
func (c *Cache) Get(id trip.EntryID) (trip.HistoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return trip.HistoryEntry{}, false
}

// Delete removes an entry after the user confirms and the backend succeeds.
// A declined confirmation makes no server call. A backend failure leaves the
// entry in place.
func (c *Cache) Delete(ctx context.Context, token string, id trip.EntryID, confirm Confirmer) error {
	entry, ok := c.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrEntryNotFound, id)
	}
	if confirm == nil || !confirm(entry) {
		return errors.ErrConfirmationDeclined
	}

	if err := c.backend.DeleteSearchHistory(ctx, token, id); err != nil {
		c.logger.Warn("delete failed", "id", id, "error", err)
		return fmt.Errorf("%w: %w", errors.ErrDeleteFailed, err)
	}

	c.mu.Lock()
	for i, e := range c.entries {
		if e.ID == id {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.logger.Info("deleted", "id", id)
	return nil
}

// Clear drops every cached entry, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.refreshedAt = time.Time{}
	c.epoch++
}

// Match returns the cached entries whose origin or destination matches the
// glob pattern (e.g. "杭*", "*shan*"). An empty pattern matches everything.
func (c *Cache) Match(pattern string) ([]trip.HistoryEntry, error) {
	entries := c.Entries()
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return entries, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	var out []trip.HistoryEntry
	for _, e := range entries {
		if g.Match(e.Query.Origin) || g.Match(e.Query.Destination) {
			out = append(out, e)
		}
	}
	return out, nil
}
