// Package s3 provides functional options for configuring the S3 store.
package s3

import (
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// config holds the settings the options can change.
type config struct {
	region         string
	endpoint       string
	forcePathStyle bool
	accessKey      string
	secretKey      string
	sessionToken   string
	httpClient     *http.Client
	awsConfig      *aws.Config
	contentType    string
	logger         *slog.Logger
}

// Option configures the S3 store.
type Option func(*config)

// WithRegion sets the AWS region.
// If not specified, uses the region from the default credential chain, then us-east-1.
func WithRegion(region string) Option {
	return func(c *config) {
		c.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(c *config) {
		c.forcePathStyle = forcePathStyle
	}
}

// WithStaticCredentials uses the given keys instead of the default credential chain.
func WithStaticCredentials(accessKey, secretKey, sessionToken string) Option {
	return func(c *config) {
		c.accessKey = accessKey
		c.secretKey = secretKey
		c.sessionToken = sessionToken
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(cfg *aws.Config) Option {
	return func(c *config) {
		c.awsConfig = cfg
	}
}

// WithContentType sets the Content-Type of uploaded objects.
// By default it is detected from the payload on the first upload.
func WithContentType(contentType string) Option {
	return func(c *config) {
		c.contentType = contentType
	}
}

// WithLogger sets the logger for the store.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
