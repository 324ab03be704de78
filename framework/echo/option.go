package jwtecho

import (
	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
)

// Option defines a functional option for configuring the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithMiddlewareOptions passes options through to jwtmiddleware.New.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(config *echoMiddlewareConfig) {
		config.middlewareOptions = append(config.middlewareOptions, opts...)
	}
}
