// Package blobbench provides functional options for configuring a sweep.
package blobbench

import (
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/sweep"
)

// Defaults used when an option is not given.
const (
	DefaultObjectCount   = 1000
	DefaultMinLevel      = 1
	DefaultMaxLevel      = 12
	DefaultPayloadSize   = 50000
	DefaultKeyPrefix     = "quickstart"
	DefaultKeySuffix     = ".txt"
	DefaultUploadTimeout = 60 * time.Second
)

// WithObjectCount sets the number of uploads per level.
func WithObjectCount(n int) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.ObjectCount = n
	}
}

// WithConcurrencyRange runs every level from minLevel to maxLevel inclusive.
func WithConcurrencyRange(minLevel, maxLevel int) benchtypes.Option {
	return WithConcurrencySweep(sweep.Range(minLevel, maxLevel, 1))
}

// WithConcurrencyLevels runs an explicit list of levels. The list is sorted
// and duplicates are dropped.
func WithConcurrencyLevels(levels ...int) benchtypes.Option {
	return WithConcurrencySweep(sweep.Values(levels...))
}

// WithConcurrencySweep sets the levels from a sweep description, as loaded
// from a configuration file.
func WithConcurrencySweep(s benchtypes.Sweep) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Sweep = s
	}
}

// WithPayloadSize sets the size in bytes of the uploaded payload.
func WithPayloadSize(size int) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.PayloadSize = size
	}
}

// WithKeyPrefix sets the prefix of every generated object key.
func WithKeyPrefix(prefix string) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.KeyPrefix = prefix
	}
}

// WithKeySuffix sets the suffix of every generated object key.
func WithKeySuffix(suffix string) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.KeySuffix = suffix
	}
}

// WithUploadTimeout bounds every single upload. Zero disables the timeout.
// Default is 60 seconds.
func WithUploadTimeout(timeout time.Duration) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.UploadTimeout = timeout
	}
}

// WithRateLimit caps upload starts per second across all workers.
// Zero means unlimited.
func WithRateLimit(perSecond float64) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.RateLimit = perSecond
	}
}

// WithDeterministicKeys switches to counter-suffixed keys and a payload
// derived from seed, so two runs upload identical objects.
func WithDeterministicKeys(enabled bool) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.Deterministic = enabled
	}
}

// WithSeed sets the payload seed used in deterministic mode.
func WithSeed(seed uint64) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.Seed = seed
	}
}

// WithCleanup deletes every level's objects once the level is reported.
// Stores that cannot delete ignore it.
func WithCleanup(enabled bool) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Run.Cleanup = enabled
	}
}

// WithLogger sets the logger for the runner.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Logger = logger
	}
}

// WithReporter sets where level results go. Default is a text table on stdout.
func WithReporter(r benchtypes.Reporter) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Reporter = r
	}
}

// WithProgress sets a tracker that observes uploads as they complete.
func WithProgress(p benchtypes.ProgressTracker) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.Progress = p
	}
}

// WithPhaseHook registers a function called on every level phase change.
func WithPhaseHook(hook benchtypes.PhaseHook) benchtypes.Option {
	return func(o *benchtypes.Options) {
		o.PhaseHook = hook
	}
}

func defaultOptions() benchtypes.Options {
	return benchtypes.Options{
		Run: benchtypes.RunConfig{
			ObjectCount:   DefaultObjectCount,
			PayloadSize:   DefaultPayloadSize,
			KeyPrefix:     DefaultKeyPrefix,
			KeySuffix:     DefaultKeySuffix,
			UploadTimeout: DefaultUploadTimeout,
		},
		Sweep: sweep.Range(DefaultMinLevel, DefaultMaxLevel, 1),
	}
}
