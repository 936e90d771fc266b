// Package storage persists small client values (session token, email, language)
// across runs. It plays the role a browser's local storage plays for a web
// client: string values under flat keys, readable at startup, written on change.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Well-known keys.
const (
	KeyToken    = "e_travel_token"
	KeyEmail    = "e_travel_email"
	KeyLanguage = "e_travel_lang"
)

// ErrNotFound is returned when a requested key has no value.
var ErrNotFound = errors.New("not found")

// ErrInvalidKey is returned for keys that are not plain file-safe names.
var ErrInvalidKey = errors.New("invalid key")

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Store provides key-value persistence for client state.
type Store interface {
	// Save persists data under key, overwriting any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves data for key. Returns ErrNotFound if the key is unset.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an unset key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key currently set, sorted.
	List(ctx context.Context) ([]string, error)
}

// ValidateKey reports whether key can be stored.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// GetString loads key as a string. Missing keys yield "" and ok=false.
func GetString(ctx context.Context, s Store, key string) (value string, ok bool, err error) {
	data, err := s.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// SetString stores value under key.
func SetString(ctx context.Context, s Store, key, value string) error {
	return s.Save(ctx, key, []byte(value))
}

// -----------------------------------------------------------------------------
// FileStore
// -----------------------------------------------------------------------------

// FileStore keeps one file per key inside a base directory.
// Files are written atomically with owner-only permissions since they hold
// bearer tokens.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStore creates a new FileStore rooted at the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory backing the store.
func (fs *FileStore) Dir() string {
	return fs.baseDir
}

// Save persists data with the given key using atomic write.
func (fs *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return atomicWriteFile(fs.keyToPath(key), data, 0600)
}

// Load retrieves data for the given key.
func (fs *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes the data associated with the given key.
func (fs *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.keyToPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns all keys in the store.
func (fs *FileStore) List(ctx context.Context) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var keys []string
	for _, e := range entries {
		// Skip directories and in-progress temp files.
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || ValidateKey(e.Name()) != nil {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (fs *FileStore) keyToPath(key string) string {
	return filepath.Join(fs.baseDir, key)
}

// -----------------------------------------------------------------------------
// MemoryStore
// -----------------------------------------------------------------------------

// MemoryStore is an in-process Store used by tests and one-shot commands
// that must not touch disk.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// atomicWriteFile writes data to a file atomically by writing to a temporary
// file first, then renaming. The target file is never partially written.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Create temp file in same directory to ensure atomic rename
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
