package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// Load reads the configuration at path and fills in defaults. The result is
// not validated, since environment and flags may still complete it; call
// Validate once every source was applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewError("config", err).WithMessage("read " + path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.NewError("config", err).WithMessage("parse " + path)
	}
	return cfg, nil
}

// Parse decodes YAML data and fills in defaults.
// Unknown keys are rejected so that typos do not silently fall back to a default.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills every zero setting that has a non-zero default.
func applyDefaults(cfg *Config) {
	if cfg.Run.Objects == 0 {
		cfg.Run.Objects = blobbench.DefaultObjectCount
	}
	if len(cfg.Run.Concurrency.Values) == 0 && len(cfg.Run.Concurrency.Range) == 0 {
		cfg.Run.Concurrency.Range = []int{blobbench.DefaultMinLevel, blobbench.DefaultMaxLevel}
	}
	if cfg.Run.PayloadSize == 0 {
		cfg.Run.PayloadSize = blobbench.DefaultPayloadSize
	}
	if cfg.Run.KeyPrefix == "" {
		cfg.Run.KeyPrefix = blobbench.DefaultKeyPrefix
	}
	if cfg.Run.KeySuffix == "" {
		cfg.Run.KeySuffix = blobbench.DefaultKeySuffix
	}
	if cfg.Run.UploadTimeout == 0 {
		cfg.Run.UploadTimeout = blobbench.DefaultUploadTimeout
	}

	if cfg.Backend.Type == "" {
		cfg.Backend.Type = BackendS3
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Output.LogLevel == "" {
		cfg.Output.LogLevel = "info"
	}
}

// ApplyEnv overrides credentials and endpoints from BLOBBENCH_* variables.
// lookup is normally os.LookupEnv. The Azure connection string also falls
// back to AZURE_STORAGE_CONNECTION_STRING.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Backend.Type, "BLOBBENCH_BACKEND")
	set(&c.Backend.Bucket, "BLOBBENCH_BUCKET")

	set(&c.Backend.S3.Region, "BLOBBENCH_S3_REGION")
	set(&c.Backend.S3.Endpoint, "BLOBBENCH_S3_ENDPOINT")
	set(&c.Backend.S3.AccessKey, "BLOBBENCH_S3_ACCESS_KEY")
	set(&c.Backend.S3.SecretKey, "BLOBBENCH_S3_SECRET_KEY")

	set(&c.Backend.Azure.ConnectionString, "BLOBBENCH_AZURE_CONNECTION_STRING", "AZURE_STORAGE_CONNECTION_STRING")
	set(&c.Backend.Azure.AccountName, "BLOBBENCH_AZURE_ACCOUNT_NAME")
	set(&c.Backend.Azure.AccountKey, "BLOBBENCH_AZURE_ACCOUNT_KEY")

	set(&c.Backend.MinIO.Endpoint, "BLOBBENCH_MINIO_ENDPOINT")
	set(&c.Backend.MinIO.AccessKey, "BLOBBENCH_MINIO_ACCESS_KEY")
	set(&c.Backend.MinIO.SecretKey, "BLOBBENCH_MINIO_SECRET_KEY")

	set(&c.Backend.OCI.ConfigFile, "BLOBBENCH_OCI_CONFIG_FILE")
	set(&c.Backend.OCI.Profile, "BLOBBENCH_OCI_PROFILE")
	set(&c.Backend.OCI.CompartmentID, "BLOBBENCH_OCI_COMPARTMENT_ID")
}
