package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Backend is the persistence collaborator: a flat string key/value cache.
// Load reports whether a value was present. Save either fully succeeds or
// leaves the previously persisted value intact.
type Backend interface {
	Load(key string) (string, bool)
	Save(key, value string) error
}

// MemoryBackend keeps values in process memory. Useful for tests and for
// running without durable persistence.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Load(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryBackend) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// FileBackend stores one file per key under a directory. Writes go through a
// temporary file followed by a rename, so a failed save never clobbers the
// previous value.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backend directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) Load(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (f *FileBackend) Save(key, value string) error {
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing %s: %w", key, err)
	}
	return nil
}

func (f *FileBackend) path(key string) string {
	// Keys are well-known collection names, but sanitize anyway.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".dat")
}
