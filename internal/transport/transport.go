// Package transport builds the HTTP client shared by every store backend.
package transport

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Config tunes the client.
type Config struct {
	// MaxConcurrency is the highest level the sweep will run. Enough idle
	// connections are kept per host that steady-state uploads reuse them.
	MaxConcurrency int

	// Timeout is the overall client timeout; 0 leaves it to the context.
	Timeout time.Duration

	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool

	// NoProxy ignores HTTP_PROXY and HTTPS_PROXY.
	NoProxy bool
}

// NewClient creates an HTTP client with a tuned transport.
// Connections per host are unbounded so that no worker ever waits for
// another worker's connection.
func NewClient(cfg Config) (*http.Client, error) {
	idle := cfg.MaxConcurrency
	if idle < 2 {
		idle = 2
	}

	t := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          idle * 2,
		MaxIdleConnsPerHost:   idle,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !cfg.NoProxy {
		t.Proxy = http.ProxyFromEnvironment
	}

	if !cfg.DisableHTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
	}

	return &http.Client{
		Transport: t,
		Timeout:   cfg.Timeout,
	}, nil
}
