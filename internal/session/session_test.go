package session

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/storage"
)

func TestManager_Load_NoToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = storage.SetString(ctx, store, storage.KeyEmail, "orphan@example.com")

	m := NewManager(store, nil)
	_, err := m.Load(ctx)
	if !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("Load() error = %v, want ErrNoSession", err)
	}
}

func TestManager_Load_BlankToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = storage.SetString(ctx, store, storage.KeyToken, "   ")

	m := NewManager(store, nil)
	if _, err := m.Load(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("Load() error = %v, want ErrNoSession", err)
	}
}

func TestManager_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(store, nil)

	want := Session{Token: "tok-123", Email: "me@example.com"}
	if err := m.Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	keys, _ := store.List(ctx)
	if len(keys) != 0 {
		t.Errorf("store still holds %v after Clear()", keys)
	}
	if _, err := m.Load(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Errorf("Load() after Clear() = %v, want ErrNoSession", err)
	}
}

func TestManager_Clear_KeepsLanguage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = storage.SetString(ctx, store, storage.KeyLanguage, "en")

	m := NewManager(store, nil)
	_ = m.Save(ctx, Session{Token: "t", Email: "e"})
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	lang, ok, _ := storage.GetString(ctx, store, storage.KeyLanguage)
	if !ok || lang != "en" {
		t.Errorf("language = (%q, %v), want (en, true)", lang, ok)
	}
}

func TestManager_Save_RejectsEmptyToken(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), nil)
	if err := m.Save(context.Background(), Session{Email: "x"}); !errors.Is(err, apperrors.ErrNoSession) {
		t.Errorf("Save() error = %v, want ErrNoSession", err)
	}
}

type failingStore struct{ storage.Store }

func (failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestManager_Load_StorageFailure(t *testing.T) {
	m := NewManager(failingStore{storage.NewMemoryStore()}, nil)
	_, err := m.Load(context.Background())

	var se *apperrors.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Load() error = %v, want *StorageError", err)
	}
}
