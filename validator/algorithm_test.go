package validator

import (
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/stretchr/testify/assert"

	"github.com/ismailkantarci/taxipartner-sub002/config"
)

func TestResolveAlgorithm(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AuthConfig
		want jwa.SignatureAlgorithm
	}{
		{"nothing configured", config.AuthConfig{}, jwa.RS256},
		{"secret", config.AuthConfig{Secret: "s"}, jwa.HS256},
		{"public key", config.AuthConfig{PublicKey: "pem"}, jwa.RS256},
		{"secret and public key", config.AuthConfig{Secret: "s", PublicKey: "pem"}, jwa.HS256},
		{"override", config.AuthConfig{Algorithm: "ES384", Secret: "s"}, jwa.ES384},
		{"lowercase override", config.AuthConfig{Algorithm: "rs512"}, jwa.RS512},
		{"none is ignored", config.AuthConfig{Algorithm: "none", Secret: "s"}, jwa.HS256},
		{"PS256 is ignored", config.AuthConfig{Algorithm: "PS256"}, jwa.RS256},
		{"EdDSA is ignored", config.AuthConfig{Algorithm: "EdDSA", PublicKey: "pem"}, jwa.RS256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAlgorithm(tt.cfg))
		})
	}
}
