package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/config"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/limits"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/progress"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/sweep"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/transport"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/report"
)

// flags holds the raw command line values. Only flags the user actually set
// are applied on top of the configuration file.
type flags struct {
	configPath string

	objects       int
	minLevel      int
	maxLevel      int
	step          int
	levels        []int
	payloadSize   int
	prefix        string
	suffix        string
	timeout       time.Duration
	rate          float64
	deterministic bool
	seed          uint64
	cleanup       bool
	createBucket  bool

	backend      string
	bucket       string
	endpoint     string
	region       string
	pathStyle    bool
	delay        time.Duration
	disableHTTP2 bool
	noProxy      bool

	format   string
	progress bool
	logLevel string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd, _ := newCommand(stdout, stderr)
	return cmd
}

// newCommand builds the root command and returns the values its flags are
// bound to.
func newCommand(stdout, stderr io.Writer) (*cobra.Command, *flags) {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "blobbench",
		Short: "Measure blob upload latency across concurrency levels",
		Long: `blobbench uploads a fixed number of objects at each concurrency level and
prints, per level, the average steady-state upload time, the average time of
each worker's first upload and the wall-clock duration of the whole batch.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f, os.LookupEnv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")

	fs.IntVarP(&f.objects, "objects", "n", blobbench.DefaultObjectCount, "uploads per concurrency level")
	fs.IntVar(&f.minLevel, "min-level", blobbench.DefaultMinLevel, "lowest concurrency level")
	fs.IntVar(&f.maxLevel, "max-level", blobbench.DefaultMaxLevel, "highest concurrency level")
	fs.IntVar(&f.step, "step", 1, "increment between levels of the range")
	fs.IntSliceVar(&f.levels, "levels", nil, "explicit concurrency levels, overrides the range")
	fs.IntVar(&f.payloadSize, "payload-size", blobbench.DefaultPayloadSize, "payload size in bytes")
	fs.StringVar(&f.prefix, "prefix", blobbench.DefaultKeyPrefix, "object key prefix")
	fs.StringVar(&f.suffix, "suffix", blobbench.DefaultKeySuffix, "object key suffix")
	fs.DurationVar(&f.timeout, "timeout", blobbench.DefaultUploadTimeout, "timeout of a single upload, 0 disables it")
	fs.Float64Var(&f.rate, "rate", 0, "maximum upload starts per second, 0 is unlimited")
	fs.BoolVar(&f.deterministic, "deterministic", false, "use counter-suffixed keys and a seeded payload")
	fs.Uint64Var(&f.seed, "seed", 0, "payload seed for --deterministic")
	fs.BoolVar(&f.cleanup, "cleanup", false, "delete each level's objects after it is reported")
	fs.BoolVar(&f.createBucket, "create-bucket", false, "create the bucket or container if it does not exist")

	fs.StringVarP(&f.backend, "backend", "b", config.BackendS3, "store backend: s3, azblob, minio, oci or memory")
	fs.StringVar(&f.bucket, "bucket", "", "bucket, or container for azblob")
	fs.StringVar(&f.endpoint, "endpoint", "", "custom endpoint for s3 or minio")
	fs.StringVar(&f.region, "region", "", "region for s3 or minio")
	fs.BoolVar(&f.pathStyle, "path-style", false, "use path-style addressing for s3")
	fs.DurationVar(&f.delay, "delay", 0, "artificial upload delay for the memory backend")
	fs.BoolVar(&f.disableHTTP2, "disable-http2", false, "keep the client on HTTP/1.1")
	fs.BoolVar(&f.noProxy, "no-proxy", false, "ignore HTTP_PROXY and HTTPS_PROXY")

	fs.StringVarP(&f.format, "format", "o", config.FormatText, "report format: text or json")
	fs.BoolVar(&f.progress, "progress", false, "draw a progress bar on stderr")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	cmd.MarkFlagsMutuallyExclusive("levels", "min-level")
	cmd.MarkFlagsMutuallyExclusive("levels", "max-level")

	return cmd, f
}

// loadConfig merges, in increasing priority, defaults, the configuration
// file, the environment and explicitly set flags, then validates the result.
func loadConfig(cmd *cobra.Command, f *flags, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(lookup)
	f.apply(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("objects") {
		cfg.Run.Objects = f.objects
	}
	switch {
	case changed("levels"):
		cfg.Run.Concurrency = sweep.Values(f.levels...)
	case changed("min-level") || changed("max-level") || changed("step"):
		lo, hi, step := f.minLevel, f.maxLevel, f.step
		// Keep the file's bounds for the side the user did not set.
		if r := cfg.Run.Concurrency.Range; len(cfg.Run.Concurrency.Values) == 0 && len(r) == 2 {
			if !changed("min-level") {
				lo = r[0]
			}
			if !changed("max-level") {
				hi = r[1]
			}
			if !changed("step") {
				step = cfg.Run.Concurrency.Step
			}
		}
		cfg.Run.Concurrency = sweep.Range(lo, hi, step)
	}
	if changed("payload-size") {
		cfg.Run.PayloadSize = f.payloadSize
	}
	if changed("prefix") {
		cfg.Run.KeyPrefix = f.prefix
	}
	if changed("suffix") {
		cfg.Run.KeySuffix = f.suffix
	}
	if changed("timeout") {
		cfg.Run.UploadTimeout = f.timeout
	}
	if changed("rate") {
		cfg.Run.RateLimit = f.rate
	}
	if changed("deterministic") {
		cfg.Run.Deterministic = f.deterministic
	}
	if changed("seed") {
		cfg.Run.Seed = f.seed
	}
	if changed("cleanup") {
		cfg.Run.Cleanup = f.cleanup
	}
	if changed("create-bucket") {
		cfg.Run.CreateBucket = f.createBucket
	}

	if changed("backend") {
		cfg.Backend.Type = f.backend
	}
	if changed("bucket") {
		cfg.Backend.Bucket = f.bucket
	}
	if changed("endpoint") {
		cfg.Backend.S3.Endpoint = f.endpoint
		cfg.Backend.MinIO.Endpoint = f.endpoint
	}
	if changed("region") {
		cfg.Backend.S3.Region = f.region
		cfg.Backend.MinIO.Region = f.region
	}
	if changed("path-style") {
		cfg.Backend.S3.ForcePathStyle = f.pathStyle
	}
	if changed("delay") {
		cfg.Backend.Memory.Delay = f.delay
	}
	if changed("disable-http2") {
		cfg.Backend.HTTP.DisableHTTP2 = f.disableHTTP2
	}
	if changed("no-proxy") {
		cfg.Backend.HTTP.NoProxy = f.noProxy
	}

	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("progress") {
		cfg.Output.Progress = f.progress
	}
	if changed("log-level") {
		cfg.Output.LogLevel = f.logLevel
	}
}

// run executes one sweep described by a validated configuration.
func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	level, err := config.ParseLogLevel(cfg.Output.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if res, err := limits.Raise(); err != nil {
		logger.Warn("could not raise open file limit", "error", err)
	} else {
		logger.Debug("open file limit", "before", res.Before, "after", res.After)
	}

	levels, err := sweep.Levels(cfg.Run.Concurrency)
	if err != nil {
		return err
	}

	client, err := transport.NewClient(transport.Config{
		MaxConcurrency: levels[len(levels)-1],
		Timeout:        cfg.Backend.HTTP.Timeout,
		DisableHTTP2:   cfg.Backend.HTTP.DisableHTTP2,
		NoProxy:        cfg.Backend.HTTP.NoProxy,
	})
	if err != nil {
		return errors.NewError("configure", err)
	}

	store, err := newStore(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	if cfg.Run.CreateBucket {
		if err := blobbench.Prepare(ctx, store); err != nil {
			return err
		}
	}

	var reporter benchtypes.Reporter = report.NewText(stdout)
	if cfg.Output.Format == config.FormatJSON {
		reporter = report.NewJSON(stdout)
	}

	opts := append(cfg.RunOptions(),
		blobbench.WithLogger(logger),
		blobbench.WithReporter(reporter),
	)
	if cfg.Output.Progress {
		opts = append(opts, blobbench.WithProgress(progress.New(stderr)))
	}

	runner, err := blobbench.New(store, opts...)
	if err != nil {
		return err
	}

	logger.Debug("store ready", "backend", cfg.Backend.Type, "bucket", cfg.Backend.Bucket)
	return runner.Run(ctx)
}
