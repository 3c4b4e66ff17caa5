// Package testutil provides test utilities for progress tracking and reporting.
package testutil

import (
	"sync"
	"sync/atomic"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

// MockProgressTracker is a mock implementation of ProgressTracker for testing.
type MockProgressTracker struct {
	increments atomic.Int64

	mu       sync.Mutex
	Starts   []ProgressStart
	Finishes int
}

// ProgressStart represents a single Start call.
type ProgressStart struct {
	Level int
	Total int
}

// Start records the level start.
func (m *MockProgressTracker) Start(level, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Starts = append(m.Starts, ProgressStart{Level: level, Total: total})
}

// Increment counts one completed upload.
func (m *MockProgressTracker) Increment() {
	m.increments.Add(1)
}

// Finish records the level end.
func (m *MockProgressTracker) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finishes++
}

// Increments returns the number of Increment calls.
func (m *MockProgressTracker) Increments() int {
	return int(m.increments.Load())
}

// RecordingReporter keeps every result it is given.
type RecordingReporter struct {
	Began   bool
	Ended   bool
	Config  benchtypes.RunConfig
	Results []benchtypes.LevelResult
}

// Begin records the run configuration.
func (r *RecordingReporter) Begin(cfg benchtypes.RunConfig) error {
	r.Began = true
	r.Config = cfg
	return nil
}

// Level records one result.
func (r *RecordingReporter) Level(result benchtypes.LevelResult) error {
	r.Results = append(r.Results, result)
	return nil
}

// End records the end of the sweep.
func (r *RecordingReporter) End() error {
	r.Ended = true
	return nil
}
