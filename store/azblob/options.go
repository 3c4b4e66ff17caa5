package azblob

import (
	"log/slog"
	"net/http"
)

type config struct {
	connectionString string
	accountName      string
	accountKey       string
	serviceURL       string
	httpClient       *http.Client
	contentType      string
	deleteParallel   int
	logger           *slog.Logger
}

// Option configures the Azure Blob store.
type Option func(*config)

// WithConnectionString authenticates with a storage account connection string.
func WithConnectionString(connectionString string) Option {
	return func(c *config) {
		c.connectionString = connectionString
	}
}

// WithSharedKey authenticates with an account name and key. The service URL
// defaults to https://<account>.blob.core.windows.net/.
func WithSharedKey(accountName, accountKey string) Option {
	return func(c *config) {
		c.accountName = accountName
		c.accountKey = accountKey
	}
}

// WithServiceURL overrides the blob service endpoint, e.g. for Azurite.
func WithServiceURL(serviceURL string) Option {
	return func(c *config) {
		c.serviceURL = serviceURL
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithContentType sets the Content-Type of uploaded blobs.
func WithContentType(contentType string) Option {
	return func(c *config) {
		c.contentType = contentType
	}
}

// WithDeleteParallelism sets how many blobs are deleted at once during cleanup.
// Default is 16.
func WithDeleteParallelism(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.deleteParallel = n
		}
	}
}

// WithLogger sets the logger for the store.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
