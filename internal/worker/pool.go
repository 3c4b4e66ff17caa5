package worker

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// Pool executes batches of uploads against a store with a fixed number of workers.
type Pool struct {
	store   benchtypes.Store
	payload []byte

	timeout  time.Duration
	limiter  *rate.Limiter
	progress benchtypes.ProgressTracker
	logger   *slog.Logger
}

// NewPool creates a pool uploading payload to store.
// payload is shared by every worker and must not be modified.
func NewPool(store benchtypes.Store, payload []byte) *Pool {
	return &Pool{
		store:   store,
		payload: payload,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithTimeout bounds every Put call. Zero disables the timeout.
func (p *Pool) WithTimeout(timeout time.Duration) *Pool {
	p.timeout = timeout
	return p
}

// WithRateLimit caps upload starts per second across all workers.
// Zero or a negative value disables the limit.
func (p *Pool) WithRateLimit(perSecond float64) *Pool {
	if perSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	} else {
		p.limiter = nil
	}
	return p
}

// WithProgressTracker sets the progress tracker for the pool.
func (p *Pool) WithProgressTracker(tracker benchtypes.ProgressTracker) *Pool {
	p.progress = tracker
	return p
}

// WithLogger sets the logger. A nil logger disables logging.
func (p *Pool) WithLogger(logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p.logger = logger
	return p
}

// Run uploads every key using exactly workers concurrent workers and returns
// one sample per key. Worker w uploads keys[w] first, so with N keys exactly
// min(workers, N) samples are first-per-worker; the remaining keys are pulled
// from a shared queue. On the first failed upload no further keys are handed
// out, in-flight uploads are allowed to finish, and the failure is returned
// as an *errors.Error carrying level and key. No samples are returned then.
func (p *Pool) Run(ctx context.Context, level, workers int, keys []string) ([]benchtypes.Sample, error) {
	if workers <= 0 {
		return nil, errors.NewError("run", errors.ErrInvalidConfig).
			WithLevel(level).
			WithMessage(fmt.Sprintf("worker count must be positive, got %d", workers))
	}

	firsts := min(workers, len(keys))
	queue := make(chan string, len(keys)-firsts)
	for _, k := range keys[firsts:] {
		queue <- k
	}
	close(queue)

	if p.progress != nil {
		p.progress.Start(level, len(keys))
		defer p.progress.Finish()
	}

	slots := make([][]benchtypes.Sample, workers)
	g, stop := errgroup.WithContext(ctx)
	for w := range workers {
		var first []string
		if w < firsts {
			first = keys[w : w+1]
		}
		g.Go(func() error {
			return p.work(ctx, stop, level, w, first, queue, &slots[w])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewError("run", err).WithLevel(level)
	}

	samples := make([]benchtypes.Sample, 0, len(keys))
	for _, slot := range slots {
		samples = append(samples, slot...)
	}
	if len(samples) != len(keys) {
		return nil, errors.NewError("run", errors.ErrUploadFailed).
			WithLevel(level).
			WithMessage(fmt.Sprintf("collected %d samples for %d keys", len(samples), len(keys)))
	}
	return samples, nil
}

// work is one worker. It uploads its own first key, if any, then drains the queue.
// Uploads run under ctx so that a failure elsewhere does not cancel them;
// stop only ends the pulling of new keys.
func (p *Pool) work(
	ctx, stop context.Context,
	level, id int,
	first []string,
	queue <-chan string,
	slot *[]benchtypes.Sample,
) error {
	seq := 0
	next := func() (string, bool) {
		if len(first) > 0 {
			key := first[0]
			first = nil
			return key, true
		}
		key, ok := <-queue
		return key, ok
	}

	for {
		if stop.Err() != nil {
			return nil
		}

		key, ok := next()
		if !ok {
			return nil
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(stop); err != nil {
				// stop is done when a sibling failed or ctx ended; both
				// are reported by Run
				if stop.Err() != nil {
					return nil
				}
				return errors.NewUploadError(level, key, err)
			}
		}

		d, err := p.upload(ctx, key)
		if err != nil {
			p.logger.Debug("upload failed",
				"level", level,
				"worker", id,
				"key", key,
				"duration", d,
				"error", err,
			)
			return errors.NewUploadError(level, key, err)
		}

		*slot = append(*slot, benchtypes.Sample{
			Worker:   id,
			Seq:      seq,
			Key:      key,
			Duration: d,
		})
		seq++

		if p.progress != nil {
			p.progress.Increment()
		}
	}
}

// upload performs one timed Put.
func (p *Pool) upload(ctx context.Context, key string) (time.Duration, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err := p.store.Put(ctx, key, p.payload)
	d := time.Since(start)

	if err != nil && stderrors.Is(ctx.Err(), context.DeadlineExceeded) && !stderrors.Is(err, errors.ErrTimeout) {
		err = fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	}
	return d, err
}
