package jwtgin

import (
	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware. It must
// abort the gin context.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *ginMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithMiddlewareOptions passes options through to jwtmiddleware.New, for
// example WithAllowUnverified, WithLogger or WithMetrics.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(config *ginMiddlewareConfig) {
		config.middlewareOptions = append(config.middlewareOptions, opts...)
	}
}
