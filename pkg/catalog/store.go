package catalog

import (
	"fmt"
	"sync"
)

// Store holds the loaded catalog for the process lifetime and supports an
// atomic swap when hot reload is enabled. It is the initialize-once handle
// injected into every engine call, so tests can supply alternate catalogs
// without process-wide mutation.
//
// The default deployment never swaps: the catalog is loaded at startup and
// treated as immutable. Reload exists solely for the optional file watcher.
type Store struct {
	mu      sync.RWMutex
	path    string
	current *Catalog
}

// NewStore loads the catalog at path and returns the handle.
func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, current: c}, nil
}

// NewStoreWith wraps an already constructed catalog (used by tests).
func NewStoreWith(c *Catalog) *Store {
	return &Store{current: c}
}

// Current returns the catalog snapshot. The returned value is immutable
// and remains valid even if a reload swaps in a newer document.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the catalog file and swaps it in atomically. On failure
// the previous catalog stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return fmt.Errorf("store has no backing file")
	}
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	return nil
}

// Path returns the backing file path, empty for in-memory stores.
func (s *Store) Path() string { return s.path }
