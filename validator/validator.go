package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/ismailkantarci/taxipartner-sub002/config"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// Validator verifies bearer tokens according to an AuthConfig. It implements
// core.Validator.
type Validator struct {
	allowUnverified bool
	issuer          string
	audience        string
	algorithm       jwa.SignatureAlgorithm

	keySets      KeySetProvider
	keySource    KeySource
	keySourceErr error

	allowedClockSkew time.Duration
	now              func() time.Time
	logger           core.Logger

	segmentParser *jwtv5.Parser
	timeValidator *jwtv5.Validator
}

// New builds a Validator from the authentication configuration.
//
// Missing issuer, audience or key source do not fail construction; they are
// reported on every ValidateToken call instead. An unreadable public key or a
// JWKS URL without a key set provider does fail construction.
func New(cfg config.AuthConfig, opts ...Option) (*Validator, error) {
	v := &Validator{
		allowUnverified:  cfg.AllowUnverified.Enabled(),
		issuer:           strings.TrimSpace(cfg.Issuer),
		audience:         strings.TrimSpace(cfg.Audience),
		algorithm:        ResolveAlgorithm(cfg),
		allowedClockSkew: cfg.ClockSkew,
		now:              time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	v.segmentParser = jwtv5.NewParser(jwtv5.WithPaddingAllowed())
	v.timeValidator = jwtv5.NewValidator(
		jwtv5.WithLeeway(v.allowedClockSkew),
		jwtv5.WithTimeFunc(v.now),
		jwtv5.WithIssuedAt(),
	)

	if v.allowUnverified {
		v.warn("JWT_ALLOW_UNVERIFIED is enabled: bearer token signatures are not checked")
		return v, nil
	}

	if sources := cfg.KeySources(); len(sources) > 1 {
		v.warn("Multiple JWT key sources configured, using the first by priority",
			"configured", sources, "selected", sources[0])
	}

	keySource, err := SelectKeySource(cfg, v.keySets)
	switch {
	case errors.Is(err, core.ErrNoVerifierConfigured):
		v.keySourceErr = err
	case err != nil:
		return nil, err
	default:
		v.keySource = keySource
	}

	return v, nil
}

// Algorithm returns the resolved signature algorithm.
func (v *Validator) Algorithm() jwa.SignatureAlgorithm {
	return v.algorithm
}

// ValidateToken verifies the token, or only decodes it when unverified tokens
// are allowed. Every error is a *core.ValidationError.
func (v *Validator) ValidateToken(ctx context.Context, token string) (*core.VerifiedToken, error) {
	if err := validateTokenFormat(token); err != nil {
		return nil, core.MalformedToken(err)
	}

	if v.allowUnverified {
		return v.decodeUnverified(token)
	}

	return v.verify(ctx, token)
}

func (v *Validator) verify(ctx context.Context, token string) (*core.VerifiedToken, error) {
	if v.issuer == "" || v.audience == "" {
		return nil, core.VerifierMisconfigured()
	}

	if v.keySource == nil {
		return nil, v.keySourceErr
	}

	header, err := parseHeader(token)
	if err != nil {
		return nil, core.MalformedToken(err)
	}

	if header.Algorithm != v.algorithm.String() {
		return nil, core.InvalidToken(fmt.Errorf("expected %q signing algorithm but token specified %q", v.algorithm, header.Algorithm))
	}

	key, err := v.keySource.Key(ctx, header.KeyID)
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(v.algorithm, key),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, core.InvalidToken(err)
	}

	payload, err := parsed.AsMap(ctx)
	if err != nil {
		return nil, core.InvalidToken(fmt.Errorf("could not read token claims: %w", err))
	}

	return &core.VerifiedToken{
		Claims: core.ClaimsFromMap(payload),
		Header: header,
	}, nil
}

func (v *Validator) warn(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Warn(msg, args...)
	}
}
