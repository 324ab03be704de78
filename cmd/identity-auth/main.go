package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
	"github.com/ismailkantarci/taxipartner-sub002/config"
	"github.com/ismailkantarci/taxipartner-sub002/internal/audit"
	"github.com/ismailkantarci/taxipartner-sub002/internal/observe"
	"github.com/ismailkantarci/taxipartner-sub002/jwks"
	"github.com/ismailkantarci/taxipartner-sub002/validator"
)

func configureServerRoutes(ctx context.Context, cfg config.Config, registry *prometheus.Registry) (http.Handler, error) {
	// wrap a mux such that HTTP telemetry is configured by default
	muxWithoutTelemetry := http.NewServeMux()
	mux := observe.NewMux(muxWithoutTelemetry)

	authenticator, err := newAuthenticator(ctx, cfg.Auth, registry)
	if err != nil {
		return nil, fmt.Errorf("authenticator configuration failed: %w", err)
	}

	authenticatedRoutes := alice.New(
		maxRequestSize(20<<10), // 20 KB
		audit.Middleware(),
		authenticator.CheckJWT,
		audit.RecordIdentity(),
	)

	mux.Handle("GET /api/me", authenticatedRoutes.Then(handleGetMe()))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	// healthchecks are not included in telemetry
	muxWithoutTelemetry.Handle("GET /healthcheck", handleHealthCheck())

	return mux, nil
}

// newAuthenticator builds the bearer token middleware from configuration.
func newAuthenticator(ctx context.Context, cfg config.AuthConfig, registry prometheus.Registerer) (*jwtmiddleware.JWTMiddleware, error) {
	logger := jwtmiddleware.NewZerologLogger(log.Logger)

	validatorOpts := []validator.Option{
		validator.WithLogger(logger),
		validator.WithAllowedClockSkew(cfg.ClockSkew),
	}

	if cfg.JWKSURL != "" && !cfg.AllowUnverified.Enabled() {
		provider, err := jwks.NewProvider(ctx, cfg.JWKSURL,
			jwks.WithMinRefreshInterval(cfg.JWKSRefreshInterval),
			jwks.WithFetchTimeout(cfg.JWKSFetchTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("JWKS provider configuration failed: %w", err)
		}

		// an unreachable key set at startup is not fatal: requests will fail
		// with key_retrieval_failed until it becomes available
		if err := provider.Warm(ctx); err != nil {
			log.Warn().Err(err).Str("url", provider.URL()).Msg("initial JWKS fetch failed")
		}

		validatorOpts = append(validatorOpts, validator.WithKeySetProvider(provider))
	}

	v, err := validator.New(cfg, validatorOpts...)
	if err != nil {
		return nil, fmt.Errorf("validator configuration failed: %w", err)
	}

	metrics, err := jwtmiddleware.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics configuration failed: %w", err)
	}

	return jwtmiddleware.New(
		jwtmiddleware.WithValidator(v),
		jwtmiddleware.WithAllowUnverified(cfg.AllowUnverified.Enabled()),
		jwtmiddleware.WithLogger(logger),
		jwtmiddleware.WithMetrics(metrics),
	)
}

func main() {
	configureLogging()

	logBuildInfo()

	err := launchServer()
	if err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

func launchServer() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	shutdownTelemetry, err := observe.Configure(ctx, cfg.Observe)
	if err != nil {
		return fmt.Errorf("telemetry bootstrap failed: %w", err)
	}

	http.DefaultTransport = observe.HttpTransport(http.DefaultTransport, cfg.Observe)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := configureServerRoutes(ctx, cfg, registry)
	if err != nil {
		return fmt.Errorf("server routing configuration failed: %w", err)
	}

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        handler,
		MaxHeaderBytes: 20 << 10, // 20 KB
	}

	server.RegisterOnShutdown(func() {
		log.Info().Msg("telemetry: shutting down")
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
		log.Info().Msg("telemetry: shutdown complete")
	})

	err = serveHTTP(cfg.Server, server)
	if err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func configureLogging() {
	zerolog.SetGlobalLevel(zerolog.Level(-128))

	// default level is Info
	log.Logger = log.Level(zerolog.InfoLevel)

	if os.Getenv("ENV") == "development" {
		log.Logger = log.
			Output(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(zerolog.DebugLevel)
	}

	zerolog.DefaultContextLogger = &log.Logger
}

func logBuildInfo() {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	ev := log.Info()
	for _, v := range buildInfo.Settings {
		if strings.HasPrefix(v.Key, "vcs.") ||
			strings.HasPrefix(v.Key, "GO") ||
			v.Key == "CGO_ENABLED" {
			ev = ev.Str(v.Key, v.Value)
		}
	}

	ev.Msg("build information")
}
