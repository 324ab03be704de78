package validator

import (
	"context"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismailkantarci/taxipartner-sub002/config"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

func TestSelectKeySource(t *testing.T) {
	pemText := publicKeyPEM(t, &generateRSAKey(t).PublicKey)
	keySets := &staticKeySets{set: jwk.NewSet()}

	tests := []struct {
		name     string
		cfg      config.AuthConfig
		wantName string
	}{
		{"secret only", config.AuthConfig{Secret: "s"}, "JWT_SECRET"},
		{"public key only", config.AuthConfig{PublicKey: pemText}, "JWT_PUBLIC_KEY"},
		{"public key beats secret", config.AuthConfig{PublicKey: pemText, Secret: "s"}, "JWT_PUBLIC_KEY"},
		{"url beats everything", config.AuthConfig{JWKSURL: "https://x/jwks", PublicKey: pemText, Secret: "s"}, "JWT_JWKS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := SelectKeySource(tt.cfg, keySets)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, source.Name())
		})
	}

	t.Run("none configured", func(t *testing.T) {
		_, err := SelectKeySource(config.AuthConfig{}, keySets)
		assert.ErrorIs(t, err, core.ErrNoVerifierConfigured)
	})

	t.Run("secret is used as raw bytes", func(t *testing.T) {
		source, err := SelectKeySource(config.AuthConfig{Secret: "s3cret"}, nil)
		require.NoError(t, err)

		key, err := source.Key(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []byte("s3cret"), key)
	})

	t.Run("ambiguous key set without kid", func(t *testing.T) {
		_, first := jwkPair(t, generateRSAKey(t), "a")
		_, second := jwkPair(t, generateRSAKey(t), "b")
		key, _ := second.Key(0)
		require.NoError(t, first.AddKey(key))

		source, err := SelectKeySource(config.AuthConfig{JWKSURL: "https://x/jwks"}, &staticKeySets{set: first})
		require.NoError(t, err)

		_, err = source.Key(context.Background(), "")
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})
}

func TestNormalizePEM(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normal", "-----BEGIN-----\nabc\n-----END-----\n", "-----BEGIN-----\nabc\n-----END-----\n"},
		{"escaped newlines", `-----BEGIN-----\nabc\n-----END-----`, "-----BEGIN-----\nabc\n-----END-----"},
		{"carriage returns", "a\r\nb\r\n", "a\nb\n"},
		{"escaped CRLF", `a\r` + "\r" + `\nb`, `a\r` + "\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePEM(tt.in))
		})
	}
}
