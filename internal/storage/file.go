package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileBackend stores one JSON file per key under <configDir>/filters.
type FileBackend struct {
	dir string
	mu  sync.RWMutex
}

// NewFileBackend creates the filters directory under configDir.
func NewFileBackend(configDir string) (*FileBackend, error) {
	dir := filepath.Join(configDir, "filters")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create filters directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the directory blobs are written to.
func (b *FileBackend) Dir() string {
	return b.dir
}

// path maps a key to its file. Keys contain ':' which not every filesystem
// accepts, so they are escaped.
func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, url.QueryEscape(key)+".json")
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *FileBackend) Set(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return os.WriteFile(b.path(key), data, 0600)
}

func (b *FileBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *FileBackend) Keys(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }
