package jwtmiddleware

import (
	"net/http"
	"regexp"
	"strings"
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
type TokenExtractor func(r *http.Request) (string, error)

var bearerPattern = regexp.MustCompile(`(?i)^\s*bearer\s+(.+?)\s*$`)

// BearerToken returns the token carried by an Authorization header value,
// or "" when the value does not use the Bearer scheme.
func BearerToken(headerValue string) string {
	m := bearerPattern.FindStringSubmatch(headerValue)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from the Authorization header. When the header is
// repeated the first value is used. Other schemes (Basic, ApiKey, ...) are
// left for other layers and yield no token. It never returns an error.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	values := r.Header.Values("Authorization")
	if len(values) == 0 {
		return "", nil // No error, just no JWT.
	}

	return BearerToken(values[0]), nil
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the one that does not return an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}
