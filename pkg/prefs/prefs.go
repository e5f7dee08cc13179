// Package prefs is the durable local preference store: the last
// selected site and the color theme. Both keys live in one JSON file
// with no expiry and no versioning.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"seopanel-go/pkg/logger"
)

// Preference keys.
const (
	KeyLastSelectedSite = "lastSelectedSite"
	KeyTheme            = "theme"
)

// Store is the key-value contract the pages depend on.
type Store interface {
	Save(ctx context.Context, key, value string) error
	Load(ctx context.Context, key string) (string, bool)
	Delete(ctx context.Context, key string) error
}

// FileStore keeps preferences in a single JSON file, loaded once at
// start and rewritten on every change.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]string
	log  *logger.Logger
}

// NewFileStore opens (or initializes) the preference file under dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &FileStore{
		path: filepath.Join(dataDir, "preferences.json"),
		data: make(map[string]string),
		log:  logger.GetLogger().WithComponent("prefs"),
	}

	raw, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := json.Unmarshal(raw, &store.data); err != nil {
		// A corrupt preference file is not worth failing startup for.
		store.log.WithError(err).Warn("Preference file unreadable, starting fresh")
		store.data = make(map[string]string)
	}
	return store, nil
}

// Save stores one preference and persists the file.
func (s *FileStore) Save(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.flush()
}

// Load returns a preference value and whether it was present.
func (s *FileStore) Load(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

// Delete removes a preference and persists the file.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return s.flush()
}

func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
