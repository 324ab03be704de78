package validator

import (
	"errors"
	"time"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeySetProvider sets the remote key set used when JWT_JWKS_URL is
// configured. It is required in that case.
func WithKeySetProvider(provider KeySetProvider) Option {
	return func(v *Validator) error {
		if provider == nil {
			return errors.New("key set provider cannot be nil")
		}
		v.keySets = provider
		return nil
	}
}

// WithAllowedClockSkew overrides the tolerance applied to exp, nbf and iat.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock sets the time source used for time claim validation.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// WithLogger sets a logger for configuration warnings.
func WithLogger(logger core.Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}
