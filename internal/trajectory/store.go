package trajectory

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store provides thread-safe access to the current trajectory set.
// The set is published and replaced atomically: readers never observe a
// partially loaded set.
type Store struct {
	set atomic.Pointer[Set]
	mu  sync.Mutex // serializes load operations
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current set, or nil if none has been loaded.
func (s *Store) Get() *Set {
	return s.set.Load()
}

// Set atomically replaces the current set.
func (s *Store) Set(set *Set) {
	s.set.Store(set)
}

// AgeSeconds returns the age of the current set in seconds.
// Returns -1 if no set is loaded.
func (s *Store) AgeSeconds() float64 {
	set := s.set.Load()
	if set == nil {
		return -1
	}
	return time.Since(set.LoadedAt).Seconds()
}

// Lock acquires the load mutex for serializing load operations.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases the load mutex.
func (s *Store) Unlock() {
	s.mu.Unlock()
}
