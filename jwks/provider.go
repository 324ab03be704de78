package jwks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultMinRefreshInterval = 15 * time.Minute
	defaultFetchTimeout       = 5 * time.Second
)

// Provider serves the signing keys published at a single JWKS URL. Keys are
// fetched on first use and refreshed in the background by jwk.Cache.
//
// A Provider is safe for concurrent use.
type Provider struct {
	jwksURL            string
	cache              *jwk.Cache
	httpClient         *http.Client
	minRefreshInterval time.Duration
	fetchTimeout       time.Duration
}

// NewProvider registers jwksURL with a new key set cache. ctx bounds the
// lifetime of the cache's background refresh; cancel it on shutdown.
//
// Example:
//
//	provider, err := jwks.NewProvider(ctx, cfg.Auth.JWKSURL,
//	    jwks.WithMinRefreshInterval(cfg.Auth.JWKSRefreshInterval),
//	    jwks.WithFetchTimeout(cfg.Auth.JWKSFetchTimeout),
//	)
func NewProvider(ctx context.Context, jwksURL string, opts ...ProviderOption) (*Provider, error) {
	u, err := url.Parse(jwksURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("JWKS URL must use http or https, got %q", u.Scheme)
	}

	p := &Provider{
		jwksURL: jwksURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		minRefreshInterval: defaultMinRefreshInterval,
		fetchTimeout:       defaultFetchTimeout,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	p.cache = jwk.NewCache(ctx)
	err = p.cache.Register(p.jwksURL,
		jwk.WithMinRefreshInterval(p.minRefreshInterval),
		jwk.WithHTTPClient(p.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("could not register JWKS URL: %w", err)
	}

	return p, nil
}

// URL returns the JWKS URL served by the provider.
func (p *Provider) URL() string {
	return p.jwksURL
}

// KeySet returns the cached key set, fetching it when the cache is empty.
// The fetch is bounded by the configured timeout and by ctx.
func (p *Provider) KeySet(ctx context.Context) (jwk.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	set, err := p.cache.Get(ctx, p.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWKS from %s: %w", p.jwksURL, err)
	}

	return set, nil
}

// Warm fetches the key set once so that the first request does not pay for
// it. Failures are returned but leave the provider usable.
func (p *Provider) Warm(ctx context.Context) error {
	_, err := p.KeySet(ctx)
	return err
}
