// Package memstore is an in-process store for dry runs. It exercises the
// whole sweep without a network; latencies are the configured delay plus
// scheduling noise.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

// Store keeps objects in a map.
type Store struct {
	delay time.Duration

	mu      sync.RWMutex
	objects map[string][]byte
	puts    int
}

// New returns an empty store that waits delay inside every Put.
func New(delay time.Duration) *Store {
	return &Store{
		delay:   delay,
		objects: make(map[string][]byte),
	}
}

// Put stores payload under key. The payload is referenced, not copied.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	s.objects[key] = payload
	s.puts++
	s.mu.Unlock()
	return nil
}

// Delete removes keys.
func (s *Store) Delete(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return nil
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Puts returns the number of Put calls that completed.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Get returns the object stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var (
	_ benchtypes.Store   = (*Store)(nil)
	_ benchtypes.Deleter = (*Store)(nil)
)
