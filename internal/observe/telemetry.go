// Package observe configures OpenTelemetry tracing for the service.
package observe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/ismailkantarci/taxipartner-sub002/config"
)

// Configure sets up the global tracer provider. The returned shutdown
// function flushes pending spans and must be called before exit.
func Configure(ctx context.Context, cfg config.ObserveConfig) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled {
		zerolog.Ctx(ctx).Info().Msg(
			"telemetry disabled: enable with OBSERVE_ENABLED to export traces",
		)
		return func(context.Context) error { return nil }, nil
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracerProvider, err := newTraceProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("trace provider configuration failed: %w", err)
	}
	otel.SetTracerProvider(tracerProvider)

	return func(ctx context.Context) error {
		return errors.Join(tracerProvider.ForceFlush(ctx), tracerProvider.Shutdown(ctx))
	}, nil
}

// HttpTransport instruments outbound requests when telemetry is enabled.
func HttpTransport(wrapped http.RoundTripper, cfg config.ObserveConfig) http.RoundTripper {
	if !cfg.Enabled {
		return wrapped
	}
	return otelhttp.NewTransport(wrapped)
}

func newTraceProvider(ctx context.Context, cfg config.ObserveConfig) (*trace.TracerProvider, error) {
	exporter, err := newExporter(ctx, cfg.Type)
	if err != nil {
		return nil, err
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter,
			trace.WithBatchTimeout(time.Duration(cfg.TraceBatchTimeoutSeconds)*time.Second),
		),
		trace.WithResource(r),
	), nil
}

func newExporter(ctx context.Context, exporterType string) (trace.SpanExporter, error) {
	switch exporterType {
	case "stdout":
		return stdouttrace.New()
	case "grpc":
		return otlptracegrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unknown OBSERVE_TYPE %q (expected stdout or grpc)", exporterType)
	}
}
