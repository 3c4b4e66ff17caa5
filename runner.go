package blobbench

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/aggregate"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/keygen"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/payload"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/sweep"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/worker"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/report"
)

// Runner drives a concurrency sweep against a single store.
// A Runner is not safe for concurrent use; levels never overlap.
type Runner struct {
	store    benchtypes.Store
	cfg      benchtypes.RunConfig
	payload  []byte
	keys     keygen.Generator
	pool     *worker.Pool
	reporter benchtypes.Reporter
	hook     benchtypes.PhaseHook
	logger   *slog.Logger
}

// New creates a Runner for store. The configuration is validated and the
// payload generated here, so a Runner that was created can always start.
func New(store benchtypes.Store, opts ...benchtypes.Option) (*Runner, error) {
	if store == nil {
		return nil, errors.NewError("configure", errors.ErrInvalidConfig).
			WithMessage("store cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	levels, err := sweep.Levels(o.Sweep)
	if err != nil {
		return nil, err
	}
	cfg := o.Run
	cfg.Levels = levels

	if err := validation.ValidateRunConfig(cfg); err != nil {
		return nil, err
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reporter := o.Reporter
	if reporter == nil {
		reporter = report.NewText(os.Stdout)
	}

	var gen keygen.Generator = keygen.UUID{Prefix: cfg.KeyPrefix, Suffix: cfg.KeySuffix}
	if cfg.Deterministic {
		cfg.RunID = uuid.NewString()[:8]
		gen = keygen.Sequential{Prefix: cfg.KeyPrefix, Suffix: cfg.KeySuffix, Run: cfg.RunID}
	} else {
		cfg.Seed = payload.Seed()
	}

	data := payload.Generate(cfg.PayloadSize, cfg.Seed)

	pool := worker.NewPool(store, data).
		WithTimeout(cfg.UploadTimeout).
		WithRateLimit(cfg.RateLimit).
		WithLogger(logger)
	if o.Progress != nil {
		pool = pool.WithProgressTracker(o.Progress)
	}

	return &Runner{
		store:    store,
		cfg:      cfg,
		payload:  data,
		keys:     gen,
		pool:     pool,
		reporter: reporter,
		hook:     o.PhaseHook,
		logger:   logger,
	}, nil
}

// Config returns a copy of the resolved run configuration.
func (r *Runner) Config() benchtypes.RunConfig {
	cfg := r.cfg
	cfg.Levels = slices.Clone(r.cfg.Levels)
	return cfg
}

// Run executes every level in ascending order and reports each one as soon
// as it completes. The first failed upload stops the sweep; levels already
// reported stay reported and nothing is reported for the failed level.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting sweep",
		"objects", r.cfg.ObjectCount,
		"levels", r.cfg.Levels,
		"payload_bytes", len(r.payload),
	)

	if err := r.reporter.Begin(r.Config()); err != nil {
		return errors.NewError("report", err)
	}

	for _, level := range r.cfg.Levels {
		if err := ctx.Err(); err != nil {
			return errors.NewError("run", err).WithLevel(level)
		}

		result, keys, err := r.runLevel(ctx, level)
		if err != nil {
			r.logger.Error("level failed", "level", level, "error", err)
			return err
		}

		if err := r.reporter.Level(result); err != nil {
			return errors.NewError("report", err).WithLevel(level)
		}
		r.transition(level, benchtypes.PhaseReported)

		if _, err := result.AvgSteady.Get(); err != nil {
			r.logger.Debug("no steady-state samples", "level", level, "objects", result.Objects, "error", err)
		}
		r.logger.Info("level complete",
			"level", level,
			"avg_push_ms", result.AvgSteady.String(),
			"avg_init_ms", result.AvgInit.String(),
			"total", result.Total,
		)

		if r.cfg.Cleanup {
			r.cleanup(ctx, level, keys)
		}
	}

	if err := r.reporter.End(); err != nil {
		return errors.NewError("report", err)
	}
	return nil
}

// RunLevel runs a single level with fresh keys and returns its aggregate.
// Nothing is reported and nothing is cleaned up.
func (r *Runner) RunLevel(ctx context.Context, level int) (benchtypes.LevelResult, error) {
	if level < 1 {
		return benchtypes.LevelResult{}, errors.NewError("run", errors.ErrInvalidConfig).
			WithLevel(level).
			WithMessage("concurrency level must be at least 1")
	}
	result, _, err := r.runLevel(ctx, level)
	return result, err
}

func (r *Runner) runLevel(ctx context.Context, level int) (benchtypes.LevelResult, []string, error) {
	r.transition(level, benchtypes.PhaseNotStarted)
	keys := r.keys.Keys(level, r.cfg.ObjectCount)

	r.transition(level, benchtypes.PhaseRunning)
	start := time.Now()
	samples, err := r.pool.Run(ctx, level, level, keys)
	total := time.Since(start)
	if err != nil {
		return benchtypes.LevelResult{}, nil, err
	}

	r.transition(level, benchtypes.PhaseAggregating)
	return aggregate.Aggregate(level, samples, total, len(r.payload)), keys, nil
}

func (r *Runner) transition(level int, phase benchtypes.Phase) {
	r.logger.Debug("level phase", "level", level, "phase", phase.String())
	if r.hook != nil {
		r.hook(level, phase)
	}
}

// cleanup removes a level's objects. Failures are logged and do not stop
// the sweep; the measurement for the level is already complete.
func (r *Runner) cleanup(ctx context.Context, level int, keys []string) {
	deleter, ok := r.store.(benchtypes.Deleter)
	if !ok {
		r.logger.Warn("store does not support cleanup", "level", level)
		return
	}
	if err := deleter.Delete(ctx, keys); err != nil {
		r.logger.Warn("cleanup failed", "level", level, "error", err)
		return
	}
	r.logger.Debug("cleaned up level", "level", level, "objects", len(keys))
}

// Prepare creates the store's bucket or container when the store supports it.
func Prepare(ctx context.Context, store benchtypes.Store) error {
	preparer, ok := store.(benchtypes.Preparer)
	if !ok {
		return nil
	}
	if err := preparer.Prepare(ctx); err != nil {
		return errors.NewError("prepare", err)
	}
	return nil
}
