// Package session owns the signed-in identity: the bearer token and the email
// it was issued for. Both are persisted in the client state store so a
// restarted client resumes without signing in again.
package session

import (
	"context"
	"strings"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/storage"
)

// Session is an authenticated identity.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Manager reads and writes the persisted session.
type Manager struct {
	store  storage.Store
	logger *logging.Logger
}

// NewManager creates a Manager backed by store.
// A nil logger discards output.
func NewManager(store storage.Store, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{store: store, logger: logger.WithOperation("session")}
}

// Load returns the persisted session. It returns errors.ErrNoSession when no
// token is stored; an email without a token does not count as a session.
func (m *Manager) Load(ctx context.Context) (Session, error) {
	token, ok, err := storage.GetString(ctx, m.store, storage.KeyToken)
	if err != nil {
		return Session{}, errors.NewStorageError(storage.KeyToken, "failed to read token", err)
	}
	if !ok || strings.TrimSpace(token) == "" {
		return Session{}, errors.ErrNoSession
	}

	email, _, err := storage.GetString(ctx, m.store, storage.KeyEmail)
	if err != nil {
		// The token alone is enough to talk to the backend.
		m.logger.Warn("failed to read email", "error", err)
	}

	return Session{Token: token, Email: email}, nil
}

// Save persists a freshly issued session.
func (m *Manager) Save(ctx context.Context, s Session) error {
	if !s.Valid() {
		return errors.ErrNoSession
	}
	if err := storage.SetString(ctx, m.store, storage.KeyToken, s.Token); err != nil {
		return errors.NewStorageError(storage.KeyToken, "failed to write token", err)
	}
	if err := storage.SetString(ctx, m.store, storage.KeyEmail, s.Email); err != nil {
		return errors.NewStorageError(storage.KeyEmail, "failed to write email", err)
	}
	m.logger.Info("session saved", "user", s.Email)
	return nil
}

// Clear removes the token and email. No server call is made.
// Both keys are attempted even if the first removal fails.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{storage.KeyToken, storage.KeyEmail} {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, errors.NewStorageError(key, "failed to delete", err))
		}
	}
	if len(errs) == 0 {
		m.logger.Info("session cleared")
	}
	return errors.Join(errs...)
}
