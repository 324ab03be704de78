package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		code     string
		sentinel error
	}{
		{"malformed", MalformedToken(nil), ErrorCodeMalformedToken, ErrMalformedToken},
		{"misconfigured", VerifierMisconfigured(), ErrorCodeVerifierMisconfigured, ErrVerifierMisconfigured},
		{"no verifier", NoVerifierConfigured(), ErrorCodeNoVerifierConfigured, ErrNoVerifierConfigured},
		{"invalid", InvalidToken(nil), ErrorCodeInvalidToken, ErrInvalidToken},
		{"key retrieval", KeyRetrievalFailed(nil), ErrorCodeKeyRetrievalFailed, ErrKeyRetrievalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, tt.err, ErrJWTInvalid)
			assert.NotEmpty(t, tt.err.Message)

			for _, other := range []error{ErrMalformedToken, ErrVerifierMisconfigured, ErrNoVerifierConfigured, ErrInvalidToken, ErrKeyRetrievalFailed} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}

func TestValidationError_Details(t *testing.T) {
	cause := errors.New("crypto/rsa: verification error")
	err := InvalidToken(cause)

	assert.Equal(t, "token verification failed: crypto/rsa: verification error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "token verification failed", InvalidToken(nil).Error())
}

func TestAsValidationError(t *testing.T) {
	t.Run("wrapped validation error is found", func(t *testing.T) {
		original := KeyRetrievalFailed(errors.New("timeout"))
		got := AsValidationError(fmt.Errorf("validate: %w", original))
		require.NotNil(t, got)
		assert.Same(t, original, got)
	})

	t.Run("plain error becomes invalid_token", func(t *testing.T) {
		cause := errors.New("boom")
		got := AsValidationError(cause)
		assert.Equal(t, ErrorCodeInvalidToken, got.Code)
		assert.ErrorIs(t, got, cause)
	})
}
