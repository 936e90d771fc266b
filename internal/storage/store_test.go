package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// stores returns one of each implementation for table-driven tests.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func TestNewFileStore_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("Path is not a directory")
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(ctx, KeyToken); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load on empty store = %v, want ErrNotFound", err)
			}

			if err := store.Save(ctx, KeyToken, []byte("abc")); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := store.Save(ctx, KeyToken, []byte("def")); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}

			data, err := store.Load(ctx, KeyToken)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(data) != "def" {
				t.Errorf("Load() = %q, want %q", data, "def")
			}

			if err := store.Delete(ctx, KeyToken); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := store.Delete(ctx, KeyToken); err != nil {
				t.Errorf("Delete of missing key should succeed, got %v", err)
			}
			if _, err := store.Load(ctx, KeyToken); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{KeyToken, KeyEmail, KeyLanguage} {
				if err := store.Save(ctx, k, []byte("v")); err != nil {
					t.Fatalf("Save(%s) failed: %v", k, err)
				}
			}

			keys, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			want := []string{KeyEmail, KeyLanguage, KeyToken}
			if len(keys) != len(want) {
				t.Fatalf("List() = %v, want %v", keys, want)
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, keys[i], want[i])
				}
			}
		})
	}
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	bad := []string{"", ".", "..", "../escape", "a/b", "white space"}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range bad {
				if err := store.Save(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Save(%q) = %v, want ErrInvalidKey", key, err)
				}
				if _, err := store.Load(ctx, key); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Load(%q) = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestStringHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value, ok, err := GetString(ctx, store, KeyEmail)
	if err != nil || ok || value != "" {
		t.Fatalf("GetString on missing key = (%q, %v, %v)", value, ok, err)
	}

	if err := SetString(ctx, store, KeyEmail, "me@example.com"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	value, ok, err = GetString(ctx, store, KeyEmail)
	if err != nil || !ok || value != "me@example.com" {
		t.Errorf("GetString = (%q, %v, %v)", value, ok, err)
	}
}

func TestFileStore_PermissionsAndNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := store.Save(ctx, KeyToken, []byte("secret")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, KeyToken))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the key file, found %d entries", len(entries))
	}
}

func TestFileStore_ConcurrentWrites(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, KeyLanguage, []byte("en"))
		}()
	}
	wg.Wait()

	data, err := store.Load(ctx, KeyLanguage)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "en" {
		t.Errorf("Load() = %q, want en", data)
	}
}
