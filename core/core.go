package core

import (
	"context"
	"fmt"
	"time"
)

// VerifiedToken is what a Validator returns for a token it accepts.
type VerifiedToken struct {
	Claims *Claims
	// Header is decoded best-effort and may be nil.
	Header *Header
}

// Validator defines the interface for token verification.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (*VerifiedToken, error)
}

// Logger defines an optional logging interface for the core middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic authentication engine.
type Core struct {
	validator       Validator
	allowUnverified bool
	logger          Logger
}

// AllowUnverified reports whether failed credentials fall through anonymously.
func (c *Core) AllowUnverified() bool {
	return c.allowUnverified
}

// CheckToken validates a raw bearer token and builds the identity for the
// request carried by ctx.
//
//   - An empty token returns (nil, nil): the request continues unauthenticated.
//   - A valid token returns the identity, merged with any user or principal
//     already attached to ctx.
//   - A failing token returns a *ValidationError, unless the Core allows
//     unverified tokens, in which case the failure is logged and (nil, nil)
//     is returned.
func (c *Core) CheckToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		c.debug("No bearer token provided, continuing unauthenticated")
		return nil, nil
	}

	hash := TokenHash(token)

	start := time.Now()
	verified, err := c.validate(ctx, token)
	duration := time.Since(start)

	if err != nil {
		verr := AsValidationError(err)

		if c.allowUnverified && ctx.Err() == nil {
			c.warn("Ignoring bearer token that failed validation",
				"code", verr.Code, "token_hash", hash, "duration", duration)
			return nil, nil
		}

		c.error("Bearer token rejected",
			"code", verr.Code, "token_hash", hash, "error", err, "duration", duration)
		return nil, verr
	}

	user, principal, jwtCtx := Normalize(
		UserFromContext(ctx),
		PrincipalFromContext(ctx),
		verified.Claims,
		hash,
		verified.Header,
	)

	c.debug("Bearer token validated", "token_hash", hash, "duration", duration)

	return &Identity{User: user, Principal: principal, JWT: jwtCtx}, nil
}

// validate runs the validator with panic recovery and context checks.
func (c *Core) validate(ctx context.Context, token string) (verified *VerifiedToken, err error) {
	defer func() {
		if r := recover(); r != nil {
			verified = nil
			err = InvalidToken(fmt.Errorf("panic during validation: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, InvalidToken(err)
	}

	verified, err = c.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if verified == nil || verified.Claims == nil {
		return nil, InvalidToken(fmt.Errorf("validator returned no claims"))
	}

	return verified, nil
}

func (c *Core) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Core) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Core) error(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
