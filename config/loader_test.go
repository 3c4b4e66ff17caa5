package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

func TestLoad_Full(t *testing.T) {
	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Run.Objects)
	assert.Equal(t, []int{1, 2, 4, 8}, cfg.Run.Concurrency.Values)
	assert.Equal(t, 1024, cfg.Run.PayloadSize)
	assert.Equal(t, "bench/", cfg.Run.KeyPrefix)
	assert.Equal(t, ".bin", cfg.Run.KeySuffix)
	assert.Equal(t, 5*time.Second, cfg.Run.UploadTimeout)
	assert.InDelta(t, 50.0, cfg.Run.RateLimit, 0)
	assert.True(t, cfg.Run.Deterministic)
	assert.Equal(t, uint64(42), cfg.Run.Seed)
	assert.True(t, cfg.Run.Cleanup)
	assert.True(t, cfg.Run.CreateBucket)

	assert.Equal(t, BackendMinIO, cfg.Backend.Type)
	assert.Equal(t, "bench-bucket", cfg.Backend.Bucket)
	assert.True(t, cfg.Backend.HTTP.DisableHTTP2)
	assert.Equal(t, 30*time.Second, cfg.Backend.HTTP.Timeout)
	assert.Equal(t, "localhost:9000", cfg.Backend.MinIO.Endpoint)

	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Output.Progress)
	assert.Equal(t, "debug", cfg.Output.LogLevel)

	require.NoError(t, cfg.Validate())
}

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Run.Objects)
	assert.Equal(t, []int{1, 12}, cfg.Run.Concurrency.Range)
	assert.Equal(t, 50000, cfg.Run.PayloadSize)
	assert.Equal(t, "quickstart", cfg.Run.KeyPrefix)
	assert.Equal(t, ".txt", cfg.Run.KeySuffix)
	assert.Equal(t, 60*time.Second, cfg.Run.UploadTimeout)
	assert.Equal(t, BackendS3, cfg.Backend.Type)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, "info", cfg.Output.LogLevel)

	require.NoError(t, cfg.Validate())
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load("testdata/unknown_field.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
	assert.Contains(t, err.Error(), "object")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("run: [1, 2"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BLOBBENCH_BACKEND":               "azblob",
		"BLOBBENCH_BUCKET":                "benchcontainer",
		"AZURE_STORAGE_CONNECTION_STRING": "UseDevelopmentStorage=true",
		"BLOBBENCH_S3_REGION":             "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	cfg.Backend.S3.Region = "eu-west-1"
	cfg.ApplyEnv(lookup)

	assert.Equal(t, BackendAzure, cfg.Backend.Type)
	assert.Equal(t, "benchcontainer", cfg.Backend.Bucket)
	assert.Equal(t, "UseDevelopmentStorage=true", cfg.Backend.Azure.ConnectionString)
	assert.Equal(t, "eu-west-1", cfg.Backend.S3.Region, "empty variables are ignored")
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_PrefersBlobbenchVariable(t *testing.T) {
	env := map[string]string{
		"BLOBBENCH_AZURE_CONNECTION_STRING": "first",
		"AZURE_STORAGE_CONNECTION_STRING":   "second",
	}
	cfg := Default()
	cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	assert.Equal(t, "first", cfg.Backend.Azure.ConnectionString)
}

func TestRunOptions(t *testing.T) {
	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)

	var o benchtypes.Options
	for _, opt := range cfg.RunOptions() {
		opt(&o)
	}

	assert.Equal(t, 200, o.Run.ObjectCount)
	assert.Equal(t, cfg.Run.Concurrency, o.Sweep)
	assert.Equal(t, 1024, o.Run.PayloadSize)
	assert.Equal(t, "bench/", o.Run.KeyPrefix)
	assert.Equal(t, ".bin", o.Run.KeySuffix)
	assert.Equal(t, 5*time.Second, o.Run.UploadTimeout)
	assert.True(t, o.Run.Deterministic)
	assert.Equal(t, uint64(42), o.Run.Seed)
	assert.True(t, o.Run.Cleanup)
}
