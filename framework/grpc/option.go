package jwtgrpc

import (
	"context"
	"errors"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

var (
	ErrCoreNil           = errors.New("core cannot be nil")
	ErrErrorHandlerNil   = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
)

// Option defines a functional option for configuring the gRPC adapter.
type Option func(*grpcMiddlewareConfig) error

// WithErrorHandler sets how a rejection is turned into a gRPC error.
func WithErrorHandler(handler func(ctx context.Context, err *core.ValidationError) error) Option {
	return func(config *grpcMiddlewareConfig) error {
		if handler == nil {
			return ErrErrorHandlerNil
		}
		config.errorHandler = handler
		return nil
	}
}

// WithTokenExtractor replaces the metadata extractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(config *grpcMiddlewareConfig) error {
		if extractor == nil {
			return ErrTokenExtractorNil
		}
		config.tokenExtractor = extractor
		return nil
	}
}

// WithExcludedMethods skips authentication for the given full method names.
func WithExcludedMethods(methods []string) Option {
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}
	return func(config *grpcMiddlewareConfig) error {
		config.exclusionChecker = func(method string) bool {
			_, ok := methodSet[method]
			return ok
		}
		return nil
	}
}

func WithLogger(logger jwtmiddleware.Logger) Option {
	return func(config *grpcMiddlewareConfig) error {
		if logger == nil {
			return ErrLoggerNil
		}
		config.logger = logger
		return nil
	}
}

func WithMetrics(metrics jwtmiddleware.Metrics) Option {
	return func(config *grpcMiddlewareConfig) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		config.metrics = metrics
		return nil
	}
}
