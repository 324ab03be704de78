package validator

import (
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"

	"github.com/ismailkantarci/taxipartner-sub002/config"
)

// ResolveAlgorithm picks the signature algorithm tokens must carry.
//
// An allowed JWT_ALG override wins. Otherwise HS256 is used when a shared
// secret is configured and RS256 in every other case. An override outside
// the allow-list is ignored.
func ResolveAlgorithm(cfg config.AuthConfig) jwa.SignatureAlgorithm {
	if alg := strings.TrimSpace(cfg.Algorithm); alg != "" && config.IsAllowedAlgorithm(alg) {
		return jwa.SignatureAlgorithm(strings.ToUpper(alg))
	}

	if cfg.Secret != "" {
		return jwa.HS256
	}

	return jwa.RS256
}
