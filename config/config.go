// Package config loads sweep and backend settings from a YAML file.
//
// A file only needs to name what differs from the defaults:
//
//	run:
//	  objects: 1000
//	  concurrency:
//	    range: [1, 12]
//	  payload_size: 50000
//	backend:
//	  type: azblob
//	  bucket: quickstartcontainer
//	  azure:
//	    connection_string: DefaultEndpointsProtocol=https;AccountName=...
package config

import (
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

// Backend types.
const (
	BackendS3     = "s3"
	BackendAzure  = "azblob"
	BackendMinIO  = "minio"
	BackendOCI    = "oci"
	BackendMemory = "memory"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the top-level configuration of a benchmark run.
type Config struct {
	Run     Run     `yaml:"run"`
	Backend Backend `yaml:"backend"`
	Output  Output  `yaml:"output"`
}

// Run holds the sweep settings.
type Run struct {
	Objects       int              `yaml:"objects"`
	Concurrency   benchtypes.Sweep `yaml:"concurrency"`
	PayloadSize   int              `yaml:"payload_size"`
	KeyPrefix     string           `yaml:"key_prefix"`
	KeySuffix     string           `yaml:"key_suffix"`
	UploadTimeout time.Duration    `yaml:"upload_timeout"`
	RateLimit     float64          `yaml:"rate_limit"`
	Deterministic bool             `yaml:"deterministic"`
	Seed          uint64           `yaml:"seed"`
	Cleanup       bool             `yaml:"cleanup"`
	CreateBucket  bool             `yaml:"create_bucket"`
}

// Backend selects and configures the store.
type Backend struct {
	// Type is one of s3, azblob, minio, oci or memory
	Type string `yaml:"type"`

	// Bucket is the bucket, or the container for azblob
	Bucket string `yaml:"bucket"`

	HTTP   HTTP   `yaml:"http"`
	S3     S3     `yaml:"s3"`
	Azure  Azure  `yaml:"azure"`
	MinIO  MinIO  `yaml:"minio"`
	OCI    OCI    `yaml:"oci"`
	Memory Memory `yaml:"memory"`
}

// HTTP tunes the shared transport.
type HTTP struct {
	DisableHTTP2 bool          `yaml:"disable_http2"`
	NoProxy      bool          `yaml:"no_proxy"`
	Timeout      time.Duration `yaml:"timeout"`
}

// S3 configures the S3 backend. Empty credentials use the default AWS chain.
type S3 struct {
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	SessionToken   string `yaml:"session_token"`
}

// Azure configures the Azure Blob backend.
type Azure struct {
	ConnectionString string `yaml:"connection_string"`
	AccountName      string `yaml:"account_name"`
	AccountKey       string `yaml:"account_key"`
	ServiceURL       string `yaml:"service_url"`
}

// MinIO configures the MinIO backend.
type MinIO struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// OCI configures the OCI Object Storage backend.
type OCI struct {
	ConfigFile    string `yaml:"config_file"`
	Profile       string `yaml:"profile"`
	Namespace     string `yaml:"namespace"`
	CompartmentID string `yaml:"compartment_id"`
}

// Memory configures the in-process backend.
type Memory struct {
	Delay time.Duration `yaml:"delay"`
}

// Output controls what the CLI prints.
type Output struct {
	// Format is text or json
	Format   string `yaml:"format"`
	Progress bool   `yaml:"progress"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// RunOptions converts the run settings into runner options. Logger, reporter
// and progress are left to the caller.
func (c *Config) RunOptions() []benchtypes.Option {
	return []benchtypes.Option{
		blobbench.WithObjectCount(c.Run.Objects),
		blobbench.WithConcurrencySweep(c.Run.Concurrency),
		blobbench.WithPayloadSize(c.Run.PayloadSize),
		blobbench.WithKeyPrefix(c.Run.KeyPrefix),
		blobbench.WithKeySuffix(c.Run.KeySuffix),
		blobbench.WithUploadTimeout(c.Run.UploadTimeout),
		blobbench.WithRateLimit(c.Run.RateLimit),
		blobbench.WithDeterministicKeys(c.Run.Deterministic),
		blobbench.WithSeed(c.Run.Seed),
		blobbench.WithCleanup(c.Run.Cleanup),
	}
}
