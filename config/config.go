// Package config loads the process-wide authentication settings from the
// environment. The resulting values are read-only after startup.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Auth    AuthConfig
	Server  ServerConfig
	Observe ObserveConfig
}

// AuthConfig carries the bearer token verification settings.
//
// Exactly one of JWKSURL, PublicKey and Secret is expected to be set. When
// more than one is present the verifier picks by fixed priority
// (JWKSURL, then PublicKey, then Secret).
type AuthConfig struct {
	// AllowUnverified disables signature verification entirely. It must never
	// be enabled in a production deployment.
	AllowUnverified Flag `env:"JWT_ALLOW_UNVERIFIED"`

	// Algorithm pins the expected signature algorithm. Empty means infer.
	Algorithm string `env:"JWT_ALG"`

	Issuer   string `env:"JWT_ISSUER"`
	Audience string `env:"JWT_AUDIENCE"`

	JWKSURL   string `env:"JWT_JWKS_URL"`
	PublicKey string `env:"JWT_PUBLIC_KEY"`
	Secret    string `env:"JWT_SECRET"`

	// ClockSkew is the tolerance applied to exp, nbf and iat. Zero keeps the
	// verification library default.
	ClockSkew time.Duration `env:"JWT_CLOCK_SKEW, default=0s"`

	JWKSRefreshInterval time.Duration `env:"JWT_JWKS_REFRESH_INTERVAL, default=15m"`
	JWKSFetchTimeout    time.Duration `env:"JWT_JWKS_FETCH_TIMEOUT, default=5s"`
}

type ServerConfig struct {
	Port                   int    `env:"PORT, default=8080"`
	ShutdownTimeoutSeconds int    `env:"SHUTDOWN_TIMEOUT_SECONDS, default=25"`
	Environment            string `env:"ENV, default=production"`
}

// ObserveConfig controls OpenTelemetry tracing. Type is "stdout" or "grpc"
// (OTLP, configured by the standard OTEL_EXPORTER_OTLP_* variables).
type ObserveConfig struct {
	Enabled                  bool   `env:"OBSERVE_ENABLED, default=false"`
	Type                     string `env:"OBSERVE_TYPE, default=stdout"`
	ServiceName              string `env:"OBSERVE_SERVICE_NAME, default=identity-auth"`
	TraceBatchTimeoutSeconds int    `env:"OBSERVE_TRACE_BATCH_TIMEOUT_SECS, default=20"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (cfg Config, err error) {
	err = envconfig.Process(ctx, &cfg)
	return
}

// LoadFrom reads the configuration using the supplied lookuper, which allows
// tests to provide the environment as a map.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (cfg Config, err error) {
	err = envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	return
}

// Validate checks the settings that can be judged once at startup. Missing
// issuer or audience is deliberately not rejected here: it surfaces on every
// request as a verifier misconfiguration instead.
func (c AuthConfig) Validate() error {
	if c.Algorithm != "" && !IsAllowedAlgorithm(c.Algorithm) {
		return fmt.Errorf("JWT_ALG %q is not an allowed signature algorithm", c.Algorithm)
	}

	if c.JWKSURL != "" {
		u, err := url.Parse(c.JWKSURL)
		if err != nil {
			return fmt.Errorf("JWT_JWKS_URL is invalid: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("JWT_JWKS_URL must be an http(s) URL, got scheme %q", u.Scheme)
		}
	}

	if c.ClockSkew < 0 {
		return fmt.Errorf("JWT_CLOCK_SKEW cannot be negative")
	}

	if c.JWKSFetchTimeout <= 0 {
		return fmt.Errorf("JWT_JWKS_FETCH_TIMEOUT must be positive")
	}

	return nil
}

// KeySources lists the names of the configured key sources in priority order.
func (c AuthConfig) KeySources() []string {
	var sources []string
	if c.JWKSURL != "" {
		sources = append(sources, "JWT_JWKS_URL")
	}
	if c.PublicKey != "" {
		sources = append(sources, "JWT_PUBLIC_KEY")
	}
	if c.Secret != "" {
		sources = append(sources, "JWT_SECRET")
	}
	return sources
}

// allowedAlgorithms is the fixed allow-list. Anything else, "none" included,
// is never selected.
var allowedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
	"RS256": true,
	"RS384": true,
	"RS512": true,
	"ES256": true,
	"ES384": true,
	"ES512": true,
}

// IsAllowedAlgorithm reports whether alg (case-insensitive) is in the
// allow-list.
func IsAllowedAlgorithm(alg string) bool {
	return allowedAlgorithms[strings.ToUpper(alg)]
}
