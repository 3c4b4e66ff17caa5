// Package testutil provides a configurable in-process store for driver tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStubFailure is returned by StubStore when FailOn is reached.
var ErrStubFailure = errors.New("stub store: injected failure")

// StubStore is a benchtypes.Store that sleeps for Delay on every Put and can
// fail a chosen call. It records every key it accepted and the highest number
// of Put calls it saw in flight at once.
type StubStore struct {
	// Delay is slept inside every Put
	Delay time.Duration

	// FailOn makes the n-th Put call (1-based) fail; 0 never fails
	FailOn int

	// Err overrides the error returned on failure
	Err error

	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64

	mu      sync.Mutex
	keys    []string
	deleted []string
}

// Put records key after sleeping for Delay.
func (s *StubStore) Put(ctx context.Context, key string, _ []byte) error {
	n := s.calls.Add(1)

	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		prev := s.maxSeen.Load()
		if cur <= prev || s.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	if s.FailOn > 0 && int(n) == s.FailOn {
		if s.Err != nil {
			return s.Err
		}
		return ErrStubFailure
	}

	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return nil
}

// Delete records the deleted keys.
func (s *StubStore) Delete(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, keys...)
	return nil
}

// Calls returns the number of Put calls, including failed ones.
func (s *StubStore) Calls() int {
	return int(s.calls.Load())
}

// MaxInFlight returns the highest number of concurrent Put calls observed.
func (s *StubStore) MaxInFlight() int {
	return int(s.maxSeen.Load())
}

// Keys returns a copy of the keys successfully stored.
func (s *StubStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Deleted returns a copy of the keys passed to Delete.
func (s *StubStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}
