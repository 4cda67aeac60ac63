// Package imagecache resolves product images at most once per SKU: a
// SKU-keyed on-disk store plus a fetcher that downloads, normalizes, and
// persists each image the first time it is seen and serves cache hits
// thereafter with no network or decode work.
package imagecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the small key-value abstraction over the cache, keyed by SKU.
// It exists so tests can swap the filesystem for an in-memory fake.
type Store interface {
	// Path returns the stored image location for the SKU, if present.
	Path(sku string) (string, bool)

	// Put persists a normalized image for the SKU and returns its path.
	// An existing valid entry is never overwritten: Put then returns the
	// existing path, making re-runs idempotent by construction.
	Put(sku string, data []byte) (string, error)
}

// DirStore keeps one JPEG per SKU in a flat directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the cache directory if needed and returns a store
// over it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *DirStore) Dir() string { return s.dir }

// Path implements Store. Zero-byte leftovers from interrupted runs are
// treated as absent so the next run repairs them.
func (s *DirStore) Path(sku string) (string, bool) {
	path := s.entryPath(sku)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Put implements Store. The write goes through a temp file and a rename so
// a concurrent reader never observes a partial entry.
func (s *DirStore) Put(sku string, data []byte) (string, error) {
	if existing, ok := s.Path(sku); ok {
		return existing, nil
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileKey(sku)+"-*")
	if err != nil {
		return "", fmt.Errorf("creating cache entry: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing cache entry: %w", err)
	}

	path := s.entryPath(sku)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publishing cache entry: %w", err)
	}
	return path, nil
}

func (s *DirStore) entryPath(sku string) string {
	return filepath.Join(s.dir, fileKey(sku)+".jpg")
}

// fileKey maps a SKU to a safe file name. SKUs come from spreadsheets and
// occasionally contain separators or spaces.
func fileKey(sku string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, sku)
	if mapped == "" {
		return "_"
	}
	return mapped
}

// MemStore is an in-memory Store for tests. Paths are synthetic.
type MemStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string][]byte)}
}

// Path implements Store.
func (m *MemStore) Path(sku string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[sku]; ok {
		return m.syntheticPath(sku), true
	}
	return "", false
}

// Put implements Store.
func (m *MemStore) Put(sku string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[sku]; !ok {
		m.entries[sku] = append([]byte(nil), data...)
	}
	return m.syntheticPath(sku), nil
}

// Get returns the stored bytes, for assertions.
func (m *MemStore) Get(sku string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[sku]
	return data, ok
}

func (m *MemStore) syntheticPath(sku string) string {
	return filepath.Join("mem", fileKey(sku)+".jpg")
}

// Compile-time interface checks.
var (
	_ Store = (*DirStore)(nil)
	_ Store = (*MemStore)(nil)
)
