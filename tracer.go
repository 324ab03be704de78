package jwtmiddleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	tracerName     = "github.com/ismailkantarci/taxipartner-sub002"
	verifySpanName = "jwt.verify"
)

func defaultTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// startVerifySpan opens the span covering one token check.
func startVerifySpan(ctx context.Context, tracer oteltrace.Tracer) (context.Context, oteltrace.Span) {
	return tracer.Start(ctx, verifySpanName, oteltrace.WithSpanKind(oteltrace.SpanKindInternal))
}

// endVerifySpan records the outcome. The token and its claims are never
// attached to the span.
func endVerifySpan(span oteltrace.Span, outcome, code string) {
	span.SetAttributes(attribute.String("jwt.outcome", outcome))
	if code != "" {
		span.SetAttributes(attribute.String("jwt.error_code", code))
	}
	if outcome == OutcomeRejected {
		span.SetStatus(codes.Error, code)
	}
	span.End()
}
