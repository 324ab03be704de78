package core

import "errors"

// Sentinel errors for bearer token verification. Every one of them also
// matches ErrJWTInvalid through errors.Is.
var (
	// ErrJWTInvalid is the umbrella error for any credential that was presented
	// but could not be trusted.
	ErrJWTInvalid = errors.New("jwt invalid")

	// ErrMalformedToken is returned when the token is structurally invalid
	// (wrong segment count, undecodable payload).
	ErrMalformedToken = errors.New("malformed token")

	// ErrVerifierMisconfigured is returned when verification is required but
	// the issuer or audience is not configured.
	ErrVerifierMisconfigured = errors.New("verifier misconfigured")

	// ErrNoVerifierConfigured is returned when verification is required but no
	// key source is configured.
	ErrNoVerifierConfigured = errors.New("no verifier configured")

	// ErrInvalidToken covers signature, issuer, audience, algorithm and time
	// claim mismatches. Callers are not told which check failed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrKeyRetrievalFailed is returned when the remote key set could not be
	// fetched in time.
	ErrKeyRetrievalFailed = errors.New("key retrieval failed")
)

// Error codes used in logs and metrics.
const (
	ErrorCodeMalformedToken        = "malformed_token"
	ErrorCodeVerifierMisconfigured = "verifier_misconfigured"
	ErrorCodeNoVerifierConfigured  = "no_verifier_configured"
	ErrorCodeInvalidToken          = "invalid_token"
	ErrorCodeKeyRetrievalFailed    = "key_retrieval_failed"
)

var sentinelByCode = map[string]error{
	ErrorCodeMalformedToken:        ErrMalformedToken,
	ErrorCodeVerifierMisconfigured: ErrVerifierMisconfigured,
	ErrorCodeNoVerifierConfigured:  ErrNoVerifierConfigured,
	ErrorCodeInvalidToken:          ErrInvalidToken,
	ErrorCodeKeyRetrievalFailed:    ErrKeyRetrievalFailed,
}

// ValidationError wraps a verification failure. Message is safe to show to
// the client; Details holds the underlying cause and is only meant for logs.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "invalid_token")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrJWTInvalid and with the
// sentinel matching its code.
func (e *ValidationError) Is(target error) bool {
	if target == ErrJWTInvalid {
		return true
	}
	sentinel, ok := sentinelByCode[e.Code]
	return ok && target == sentinel
}

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// MalformedToken builds the error returned for structurally invalid tokens.
func MalformedToken(details error) *ValidationError {
	return NewValidationError(ErrorCodeMalformedToken, "token is malformed", details)
}

// VerifierMisconfigured builds the error returned when issuer or audience pinning is missing.
func VerifierMisconfigured() *ValidationError {
	return NewValidationError(
		ErrorCodeVerifierMisconfigured,
		"JWT_ISSUER and JWT_AUDIENCE are required when JWT_ALLOW_UNVERIFIED is not true",
		nil,
	)
}

// NoVerifierConfigured builds the error returned when no key source is set.
func NoVerifierConfigured() *ValidationError {
	return NewValidationError(
		ErrorCodeNoVerifierConfigured,
		"no JWT verifier configured (set JWT_JWKS_URL, JWT_PUBLIC_KEY, or JWT_SECRET)",
		nil,
	)
}

// InvalidToken builds the uniform verification failure.
func InvalidToken(details error) *ValidationError {
	return NewValidationError(ErrorCodeInvalidToken, "token verification failed", details)
}

// KeyRetrievalFailed builds the error returned when signing keys cannot be fetched.
func KeyRetrievalFailed(details error) *ValidationError {
	return NewValidationError(ErrorCodeKeyRetrievalFailed, "signing keys could not be retrieved", details)
}

// AsValidationError returns err as a *ValidationError. Errors of any other
// type are reported as InvalidToken so that nothing unclassified crosses the
// authentication boundary.
func AsValidationError(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return InvalidToken(err)
}
