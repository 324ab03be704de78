package jwtmiddleware

import (
	"fmt"
	"net/http"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

type JWTMiddleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              oteltrace.Tracer

	// Temporary fields used during construction
	validator       core.Validator
	allowUnverified bool
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from JWT validation.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new JWTMiddleware instance with the supplied options.
// All parameters are passed via options (pure options pattern).
//
// Example:
//
//	middleware, err := jwtmiddleware.New(
//	    jwtmiddleware.WithValidator(v),
//	    jwtmiddleware.WithAllowUnverified(cfg.Auth.AllowUnverified.Enabled()),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*JWTMiddleware, error) {
	m := &JWTMiddleware{
		// Set secure defaults before applying options
		validateOnOptions: true,  // Validate OPTIONS by default
		allowUnverified:   false, // Reject what cannot be verified by default
	}

	// Apply all options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	// Validate required configuration
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", err)
	}

	// Apply defaults for optional fields not set by options
	m.applyDefaults()

	// Create the core with the configured validator and options
	if err := m.createCore(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return m, nil
}

// validate ensures all required fields are set
func (m *JWTMiddleware) validate() error {
	if m.validator == nil {
		return ErrValidatorNil
	}
	return nil
}

// createCore creates the core.Core instance with the configured options
func (m *JWTMiddleware) createCore() error {
	coreOpts := []core.Option{
		core.WithValidator(m.validator),
		core.WithAllowUnverified(m.allowUnverified),
	}

	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}

	coreInstance, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = coreInstance
	return nil
}

// applyDefaults sets default values for optional fields
func (m *JWTMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.metrics == nil {
		m.metrics = NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = defaultTracer()
	}
}

// CheckJWT is the main JWTMiddleware function which performs the main logic. It
// is passed a http.Handler which will be called unless the request is rejected.
//
// Requests without a bearer token pass through untouched. Requests with a
// valid token continue with the user, principal and JWT context attached.
// Requests with a failing token are rejected through the error handler, or
// continue without identity when unverified tokens are allowed.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If there's an exclusion handler and the URL matches, skip JWT validation
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			m.debug("skipping JWT validation for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		// If we don't validate on OPTIONS and this is OPTIONS
		// then continue onto next without validating.
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			m.debug("skipping JWT validation for OPTIONS request")
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			// A custom extractor found a credential it could not read.
			verr := core.MalformedToken(fmt.Errorf("error extracting token: %w", err))
			if m.allowUnverified {
				m.metrics.ObserveVerification(OutcomeAnonymous, "", 0)
				m.warn("ignoring unreadable credential", "code", verr.Code, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}
			m.reject(w, r, verr, 0)
			return
		}

		if token == "" {
			m.metrics.ObserveVerification(OutcomeNoCredential, "", 0)
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := startVerifySpan(r.Context(), m.tracer)
		start := time.Now()
		identity, err := m.core.CheckToken(ctx, token)
		duration := time.Since(start)

		if err != nil {
			verr := core.AsValidationError(err)
			endVerifySpan(span, OutcomeRejected, verr.Code)
			m.reject(w, r, verr, duration)
			return
		}

		// core.CheckToken returns (nil, nil) for a failed token when
		// unverified tokens are allowed.
		if identity == nil {
			endVerifySpan(span, OutcomeAnonymous, "")
			m.metrics.ObserveVerification(OutcomeAnonymous, "", duration)
			next.ServeHTTP(w, r)
			return
		}

		endVerifySpan(span, OutcomeAuthenticated, "")
		m.metrics.ObserveVerification(OutcomeAuthenticated, "", duration)

		r = r.Clone(core.SetIdentity(r.Context(), identity))
		next.ServeHTTP(w, r)
	})
}

// Core returns the authentication core so that other transports can share it.
func (m *JWTMiddleware) Core() *core.Core {
	return m.core
}

func (m *JWTMiddleware) reject(w http.ResponseWriter, r *http.Request, verr *core.ValidationError, duration time.Duration) {
	m.metrics.ObserveVerification(OutcomeRejected, verr.Code, duration)
	m.warn("JWT validation failed",
		"code", verr.Code,
		"method", r.Method,
		"path", r.URL.Path)
	m.errorHandler(w, r, verr)
}

func (m *JWTMiddleware) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *JWTMiddleware) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
