package blobbench

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/testutil"
)

func TestNew_Defaults(t *testing.T) {
	runner, err := New(&testutil.StubStore{}, WithReporter(&testutil.RecordingReporter{}))
	require.NoError(t, err)

	cfg := runner.Config()
	assert.Equal(t, 1000, cfg.ObjectCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, cfg.Levels)
	assert.Equal(t, 50000, cfg.PayloadSize)
	assert.Equal(t, "quickstart", cfg.KeyPrefix)
	assert.Equal(t, ".txt", cfg.KeySuffix)
	assert.Equal(t, 60*time.Second, cfg.UploadTimeout)
	assert.Len(t, runner.payload, 50000)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		store benchtypes.Store
		opts  []benchtypes.Option
	}{
		{name: "nil store", store: nil},
		{name: "zero objects", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithObjectCount(0)}},
		{name: "inverted range", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithConcurrencyRange(4, 1)}},
		{name: "zero level", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithConcurrencyLevels(0, 2)}},
		{name: "negative payload", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithPayloadSize(-1)}},
		{name: "empty payload", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithPayloadSize(0)}},
		{name: "level above limit", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithConcurrencyRange(1, benchtypes.MaxConcurrency+1)}},
		{name: "negative rate", store: &testutil.StubStore{}, opts: []benchtypes.Option{WithRateLimit(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.store, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidConfig(err))
		})
	}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		objects     int
		levels      []int
		wantInit    []int
		wantSteady  []int
		wantDefined []bool
	}{
		{
			name:        "single worker",
			objects:     10,
			levels:      []int{1},
			wantInit:    []int{1},
			wantSteady:  []int{9},
			wantDefined: []bool{true},
		},
		{
			name:        "one object per worker",
			objects:     10,
			levels:      []int{10},
			wantInit:    []int{10},
			wantSteady:  []int{0},
			wantDefined: []bool{false},
		},
		{
			name:        "ascending mix",
			objects:     6,
			levels:      []int{4, 2, 8},
			wantInit:    []int{2, 4, 6},
			wantSteady:  []int{4, 2, 0},
			wantDefined: []bool{true, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &testutil.StubStore{Delay: 10 * time.Millisecond}
			rep := &testutil.RecordingReporter{}

			runner, err := New(store,
				WithObjectCount(tt.objects),
				WithConcurrencyLevels(tt.levels...),
				WithPayloadSize(128),
				WithReporter(rep),
			)
			require.NoError(t, err)
			require.NoError(t, runner.Run(context.Background()))

			assert.True(t, rep.Began)
			assert.True(t, rep.Ended)
			require.Len(t, rep.Results, len(tt.wantInit))

			prev := 0
			for i, res := range rep.Results {
				assert.Greater(t, res.Concurrency, prev, "levels must be ascending")
				prev = res.Concurrency

				assert.Equal(t, tt.objects, res.Objects)
				assert.Equal(t, tt.wantInit[i], res.InitSamples)
				assert.Equal(t, tt.wantSteady[i], res.SteadySamples)
				assert.Equal(t, tt.wantDefined[i], res.AvgSteady.Defined)
				assert.True(t, res.AvgInit.Defined)
				assert.GreaterOrEqual(t, res.AvgInit.Value, 10*time.Millisecond)
				assert.Positive(t, res.Total)
			}
			assert.Equal(t, tt.objects*len(tt.wantInit), store.Calls())
		})
	}
}

func TestRunner_Run_FreshKeysPerLevel(t *testing.T) {
	store := &testutil.StubStore{}
	runner, err := New(store,
		WithObjectCount(20),
		WithConcurrencyRange(1, 3),
		WithReporter(&testutil.RecordingReporter{}),
	)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	keys := store.Keys()
	require.Len(t, keys, 60)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.False(t, seen[k], "key %s uploaded twice", k)
		seen[k] = true
		assert.Regexp(t, `^quickstart[0-9a-f-]{36}\.txt$`, k)
	}
}

func TestRunner_Run_StopsOnFailure(t *testing.T) {
	store := &testutil.StubStore{FailOn: 15}
	rep := &testutil.RecordingReporter{}

	runner, err := New(store,
		WithObjectCount(10),
		WithConcurrencyRange(1, 3),
		WithReporter(rep),
	)
	require.NoError(t, err)

	err = runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUploadFailed(err))
	assert.Equal(t, 2, errors.LevelOf(err))
	assert.NotEmpty(t, errors.KeyOf(err))

	require.Len(t, rep.Results, 1)
	assert.Equal(t, 1, rep.Results[0].Concurrency)
	assert.False(t, rep.Ended)
}

func TestRunner_PhaseHook(t *testing.T) {
	var phases []benchtypes.Phase
	runner, err := New(&testutil.StubStore{},
		WithObjectCount(3),
		WithConcurrencyLevels(2),
		WithReporter(&testutil.RecordingReporter{}),
		WithPhaseHook(func(level int, p benchtypes.Phase) {
			assert.Equal(t, 2, level)
			phases = append(phases, p)
		}),
	)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, []benchtypes.Phase{
		benchtypes.PhaseNotStarted,
		benchtypes.PhaseRunning,
		benchtypes.PhaseAggregating,
		benchtypes.PhaseReported,
	}, phases)
}

func TestRunner_Cleanup(t *testing.T) {
	store := &testutil.StubStore{}
	runner, err := New(store,
		WithObjectCount(5),
		WithConcurrencyRange(1, 2),
		WithCleanup(true),
		WithReporter(&testutil.RecordingReporter{}),
	)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	assert.ElementsMatch(t, store.Keys(), store.Deleted())
}

func TestRunner_DeterministicKeys(t *testing.T) {
	store := &testutil.StubStore{}
	runner, err := New(store,
		WithObjectCount(2),
		WithConcurrencyLevels(1),
		WithDeterministicKeys(true),
		WithSeed(7),
		WithKeyPrefix("bench/"),
		WithReporter(&testutil.RecordingReporter{}),
	)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	runID := runner.Config().RunID
	require.Len(t, runID, 8)
	assert.Equal(t, []string{
		"bench/" + runID + "-001-000000.txt",
		"bench/" + runID + "-001-000001.txt",
	}, store.Keys())
	assert.Equal(t, uint64(7), runner.Config().Seed)

	again, err := New(&testutil.StubStore{},
		WithDeterministicKeys(true),
		WithSeed(7),
		WithReporter(&testutil.RecordingReporter{}),
	)
	require.NoError(t, err)
	assert.Equal(t, runner.payload[:100], again.payload[:100])
}

func TestRunner_DeterministicKeys_DisjointAcrossRuns(t *testing.T) {
	run := func() (string, []string) {
		store := &testutil.StubStore{}
		runner, err := New(store,
			WithObjectCount(3),
			WithConcurrencyLevels(1, 2),
			WithDeterministicKeys(true),
			WithSeed(7),
			WithReporter(&testutil.RecordingReporter{}),
		)
		require.NoError(t, err)
		require.NoError(t, runner.Run(context.Background()))
		return runner.Config().RunID, store.Keys()
	}

	firstID, first := run()
	secondID, second := run()
	assert.NotEqual(t, firstID, secondID)
	require.Len(t, first, 6)
	require.Len(t, second, 6)
	for _, k := range second {
		assert.NotContains(t, first, k)
	}
}

func TestRunner_RandomKeys_NoRunID(t *testing.T) {
	runner, err := New(&testutil.StubStore{}, WithReporter(&testutil.RecordingReporter{}))
	require.NoError(t, err)
	assert.Empty(t, runner.Config().RunID)
}

func TestRunner_Timing(t *testing.T) {
	const delay = 5 * time.Millisecond

	tests := []struct {
		name  string
		level int
		check func(t *testing.T, res benchtypes.LevelResult)
	}{
		{
			name:  "serial",
			level: 1,
			check: func(t *testing.T, res benchtypes.LevelResult) {
				assert.GreaterOrEqual(t, res.Total, 10*delay)
				require.True(t, res.AvgSteady.Defined)
				assert.GreaterOrEqual(t, res.Total, res.AvgInit.Value)
				assert.GreaterOrEqual(t, res.Total, res.AvgSteady.Value)
				assert.GreaterOrEqual(t, res.AvgSteady.Value, delay)
			},
		},
		{
			name:  "fully parallel",
			level: 10,
			check: func(t *testing.T, res benchtypes.LevelResult) {
				assert.GreaterOrEqual(t, res.Total, delay)
				assert.Less(t, res.Total, 25*time.Millisecond, "ten parallel uploads must not run serially")
				assert.False(t, res.AvgSteady.Defined)
				assert.GreaterOrEqual(t, res.Total, res.AvgInit.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := New(&testutil.StubStore{Delay: delay},
				WithObjectCount(10),
				WithPayloadSize(64),
				WithReporter(&testutil.RecordingReporter{}),
			)
			require.NoError(t, err)

			res, err := runner.RunLevel(context.Background(), tt.level)
			require.NoError(t, err)
			assert.Equal(t, min(tt.level, 10), res.InitSamples)
			assert.GreaterOrEqual(t, res.AvgInit.Value, delay)
			tt.check(t, res)
		})
	}
}

func TestRunner_Progress(t *testing.T) {
	tracker := &testutil.MockProgressTracker{}
	runner, err := New(&testutil.StubStore{},
		WithObjectCount(4),
		WithConcurrencyRange(1, 2),
		WithProgress(tracker),
		WithReporter(&testutil.RecordingReporter{}),
	)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, []testutil.ProgressStart{{Level: 1, Total: 4}, {Level: 2, Total: 4}}, tracker.Starts)
	assert.Equal(t, 8, tracker.Increments())
	assert.Equal(t, 2, tracker.Finishes)
}

func TestRunner_RunLevel(t *testing.T) {
	rep := &testutil.RecordingReporter{}
	runner, err := New(&testutil.StubStore{Delay: 10 * time.Millisecond}, WithObjectCount(8), WithReporter(rep))
	require.NoError(t, err)

	res, err := runner.RunLevel(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Concurrency)
	assert.Equal(t, 4, res.InitSamples)
	assert.Equal(t, 4, res.SteadySamples)
	assert.Empty(t, rep.Results)

	_, err = runner.RunLevel(context.Background(), 0)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := &testutil.RecordingReporter{}
	runner, err := New(&testutil.StubStore{}, WithObjectCount(3), WithReporter(rep))
	require.NoError(t, err)

	err = runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rep.Results)
}

type preparingStore struct {
	testutil.StubStore
	prepared bool
	err      error
}

func (p *preparingStore) Prepare(context.Context) error {
	p.prepared = true
	return p.err
}

func TestPrepare(t *testing.T) {
	require.NoError(t, Prepare(context.Background(), &testutil.StubStore{}))

	store := &preparingStore{}
	require.NoError(t, Prepare(context.Background(), store))
	assert.True(t, store.prepared)

	failing := &preparingStore{err: stderrors.New("boom")}
	err := Prepare(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blobbench.prepare")
}
