// Package benchtypes provides shared type definitions for the blobbench module.
package benchtypes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// MaxConcurrency is the highest concurrency level a sweep may run.
const MaxConcurrency = 10000

// Store is the narrow storage capability the benchmark depends on.
// Put creates or overwrites the object at key with payload. Implementations
// must not retain or modify payload; it is shared by every worker.
type Store interface {
	Put(ctx context.Context, key string, payload []byte) error
}

// Deleter is implemented by stores that can remove uploaded objects.
// It is only used for optional cleanup between levels, outside the timed region.
type Deleter interface {
	Delete(ctx context.Context, keys []string) error
}

// Preparer is implemented by stores that can create their bucket or container
// before the sweep starts.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Phase is the state of a single concurrency level.
type Phase int

// Level phases, in the order a level passes through them.
const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseAggregating
	PhaseReported
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhaseAggregating:
		return "aggregating"
	case PhaseReported:
		return "reported"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PhaseHook is called every time a level changes phase.
type PhaseHook func(level int, phase Phase)

// Sample is one completed upload.
type Sample struct {
	// Worker identifies the worker slot that performed the upload
	Worker int

	// Seq is the position of the upload within its worker, starting at 0
	Seq int

	// Key is the object key that was uploaded
	Key string

	// Duration is the time spent inside Store.Put
	Duration time.Duration
}

// Mean is an arithmetic mean that may be undefined when there were no samples.
type Mean struct {
	Value   time.Duration
	Defined bool
}

// Millis returns the mean in fractional milliseconds. It returns 0 for an
// undefined mean; check Defined before using the value.
func (m Mean) Millis() float64 {
	return Millis(m.Value)
}

// Get returns the mean, or errors.ErrInsufficientData when no sample
// contributed to it.
func (m Mean) Get() (time.Duration, error) {
	if !m.Defined {
		return 0, errors.ErrInsufficientData
	}
	return m.Value, nil
}

// String formats the mean in milliseconds, or "undefined".
func (m Mean) String() string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.1f", m.Millis())
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// LevelResult is the summary of one completed concurrency level.
type LevelResult struct {
	// Concurrency is the number of workers used for the level
	Concurrency int

	// Objects is the number of uploads performed
	Objects int

	// InitSamples is the number of first-per-worker samples
	InitSamples int

	// SteadySamples is the number of non-first samples
	SteadySamples int

	// AvgSteady is the mean over steady-state samples
	AvgSteady Mean

	// AvgInit is the mean over init samples
	AvgInit Mean

	// Total is the wall-clock duration of the whole batch
	Total time.Duration

	// P50, P90 and P99 are percentiles over every sample in the level
	P50 time.Duration
	P90 time.Duration
	P99 time.Duration

	// Max is the slowest upload in the level
	Max time.Duration

	// Throughput is payload bytes per second over Total
	Throughput float64
}

// Reporter receives results as the sweep progresses.
type Reporter interface {
	// Begin is called once before the first level runs
	Begin(cfg RunConfig) error

	// Level is called once per completed level, in ascending order
	Level(result LevelResult) error

	// End is called once after the last level was reported
	End() error
}

// ProgressTracker defines the interface for tracking level progress.
// Increment is called concurrently from every worker.
type ProgressTracker interface {
	// Start is called when a level begins with the number of uploads it will run
	Start(level, total int)

	// Increment is called after each successful upload
	Increment()

	// Finish is called when the level's workers have all returned
	Finish()
}

// RunConfig holds the immutable configuration of a sweep.
type RunConfig struct {
	// ObjectCount is the number of uploads per level
	ObjectCount int

	// Levels are the concurrency levels to run, ascending
	Levels []int

	// PayloadSize is the size in bytes of the shared payload
	PayloadSize int

	// KeyPrefix and KeySuffix wrap every generated object key
	KeyPrefix string
	KeySuffix string

	// UploadTimeout bounds a single Put call; 0 disables the timeout
	UploadTimeout time.Duration

	// RateLimit caps upload starts per second across all workers; 0 is unlimited
	RateLimit float64

	// Deterministic selects counter-suffixed keys and a fixed payload seed
	Deterministic bool

	// Seed is the payload seed used in deterministic mode
	Seed uint64

	// RunID scopes deterministic keys to one Runner so repeated runs never
	// write the same keys; empty in random-key mode
	RunID string

	// Cleanup deletes a level's objects after it is reported
	Cleanup bool
}

// Sweep describes which concurrency levels to run. Values takes precedence
// over Range.
type Sweep struct {
	// Values is an explicit list of levels
	Values []int `yaml:"values,omitempty" json:"values,omitempty"`

	// Range is [min, max], both inclusive
	Range []int `yaml:"range,omitempty" json:"range,omitempty"`

	// Step is the increment for Range; values <= 0 mean 1
	Step int `yaml:"step,omitempty" json:"step,omitempty"`
}

// Options holds everything the functional options can set.
type Options struct {
	Run       RunConfig
	Sweep     Sweep
	Logger    *slog.Logger
	Reporter  Reporter
	Progress  ProgressTracker
	PhaseHook PhaseHook
}

// Option is a functional option for configuring a Runner.
type Option func(*Options)
