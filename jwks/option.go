package jwks

import (
	"fmt"
	"net/http"
	"time"
)

// ProviderOption is how options for the Provider are set up.
type ProviderOption func(*Provider) error

// WithCustomClient sets a custom HTTP client for the Provider.
// If not specified, a client with a 30s timeout and an OpenTelemetry
// transport is used.
func WithCustomClient(c *http.Client) ProviderOption {
	return func(p *Provider) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		p.httpClient = c
		return nil
	}
}

// WithMinRefreshInterval sets the minimum interval between key set
// refreshes. If not specified, defaults to 15 minutes. Cache-Control headers
// from the JWKS endpoint can only lengthen it.
func WithMinRefreshInterval(interval time.Duration) ProviderOption {
	return func(p *Provider) error {
		if interval < 0 {
			return fmt.Errorf("refresh interval cannot be negative")
		}
		if interval == 0 {
			interval = defaultMinRefreshInterval
		}
		p.minRefreshInterval = interval
		return nil
	}
}

// WithFetchTimeout bounds a synchronous key set fetch. If not specified,
// defaults to 5 seconds.
func WithFetchTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) error {
		if timeout <= 0 {
			return fmt.Errorf("fetch timeout must be positive")
		}
		p.fetchTimeout = timeout
		return nil
	}
}
