package core

import (
	"errors"
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a Validator using WithValidator.
//
// Example:
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithAllowUnverified(cfg.AllowUnverified.Enabled()),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{
		allowUnverified: false, // Secure default: reject what cannot be verified
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.validator == nil {
		return nil, errors.New("validator is required but not set (use WithValidator option)")
	}

	return c, nil
}

// WithValidator sets the validator for the Core. This is a required option.
func WithValidator(validator Validator) Option {
	return func(c *Core) error {
		if validator == nil {
			return errors.New("validator cannot be nil")
		}
		c.validator = validator
		return nil
	}
}

// WithAllowUnverified switches the failure policy to fail-open: a credential
// that cannot be decoded or validated is ignored and the request continues
// anonymously. It is meant for development only.
func WithAllowUnverified(allow bool) Option {
	return func(c *Core) error {
		c.allowUnverified = allow
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// The raw token is never logged; failures carry the error code and the token
// hash instead.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
