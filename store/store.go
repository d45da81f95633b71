// Package store holds the most recent scrape result for concurrent use:
// the poller replaces it while the web server reads it.
package store

import (
	"sync"

	"iopac-calendar/scraper"
)

// Store is a single cell with one writer and any number of readers.
type Store struct {
	mu   sync.RWMutex
	data scraper.Data
}

func New() *Store {
	return &Store{data: make(scraper.Data)}
}

// Set installs a complete cycle result, fully replacing the previous one.
func (s *Store) Set(data scraper.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Snapshot returns the current cycle result. Installed values are never
// mutated in place, so the caller may use the snapshot without locking.
func (s *Store) Snapshot() scraper.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}
