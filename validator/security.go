package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token contains more separators
	// than any compact serialization needs.
	ErrExcessiveTokenDots = errors.New("token contains excessive dots")

	// ErrTokenTooLarge is returned for tokens above maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size")
)

const (
	// maxTokenDots allows the JWS compact form (2 dots) with headroom.
	maxTokenDots = 5

	// maxTokenSize caps the token at 1MB. Real tokens are a few KB.
	maxTokenSize = 1024 * 1024
)

// validateTokenFormat rejects inputs that are obviously not tokens before
// any decoding happens.
func validateTokenFormat(token string) error {
	if len(token) > maxTokenSize {
		return ErrTokenTooLarge
	}

	if strings.Count(token, ".") > maxTokenDots {
		return ErrExcessiveTokenDots
	}

	return nil
}
