package config

import (
	"fmt"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/sweep"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
)

// Validate checks the configuration as a whole. Backend credentials are
// checked only for presence; the store constructors verify the rest.
func (c *Config) Validate() error {
	levels, err := sweep.Levels(c.Run.Concurrency)
	if err != nil {
		return err
	}
	if err := validation.ValidateRunConfig(c.RunConfig(levels)); err != nil {
		return err
	}

	if err := c.Backend.validate(); err != nil {
		return err
	}

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return invalid("unknown output format %q", c.Output.Format)
	}

	if _, err := ParseLogLevel(c.Output.LogLevel); err != nil {
		return err
	}
	return nil
}

func (b *Backend) validate() error {
	switch b.Type {
	case BackendMemory:
		return nil
	case BackendAzure:
		if b.Azure.ConnectionString == "" && (b.Azure.AccountName == "" || b.Azure.AccountKey == "") {
			return invalid("azblob backend needs a connection string or an account name and key")
		}
		return validation.ValidateContainerName(b.Bucket)
	case BackendMinIO:
		if b.MinIO.Endpoint == "" {
			return invalid("minio backend needs an endpoint")
		}
		return validation.ValidateBucketName(b.Bucket)
	case BackendS3, BackendOCI:
		return validation.ValidateBucketName(b.Bucket)
	default:
		return invalid("unknown backend type %q", b.Type)
	}
}

// RunConfig converts the run settings into the benchmark configuration
// for the given, already expanded, levels.
func (c *Config) RunConfig(levels []int) benchtypes.RunConfig {
	return benchtypes.RunConfig{
		ObjectCount:   c.Run.Objects,
		Levels:        levels,
		PayloadSize:   c.Run.PayloadSize,
		KeyPrefix:     c.Run.KeyPrefix,
		KeySuffix:     c.Run.KeySuffix,
		UploadTimeout: c.Run.UploadTimeout,
		RateLimit:     c.Run.RateLimit,
		Deterministic: c.Run.Deterministic,
		Seed:          c.Run.Seed,
		Cleanup:       c.Run.Cleanup,
	}
}

// ParseLogLevel converts debug, info, warn or error into a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, invalid("unknown log level %q", level)
	}
	return l, nil
}

func invalid(format string, args ...any) error {
	return errors.NewError("config", errors.ErrInvalidConfig).WithMessage(fmt.Sprintf(format, args...))
}
