package validator

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://identity.example.com/"
	testAudience = "taxipartner-api"
	testSecret   = "abcdefghijklmnopqrstuvwxyz012345"
)

type tokenTemplate struct {
	issuer    string
	audience  string
	subject   string
	expiresIn time.Duration
	extra     map[string]any
}

func defaultTokenTemplate() tokenTemplate {
	return tokenTemplate{
		issuer:    testIssuer,
		audience:  testAudience,
		subject:   "user-123",
		expiresIn: time.Hour,
	}
}

func buildToken(t *testing.T, tmpl tokenTemplate) jwt.Token {
	t.Helper()

	b := jwt.NewBuilder().
		Subject(tmpl.subject).
		IssuedAt(time.Now().Add(-time.Minute)).
		Expiration(time.Now().Add(tmpl.expiresIn))
	if tmpl.issuer != "" {
		b = b.Issuer(tmpl.issuer)
	}
	if tmpl.audience != "" {
		b = b.Audience([]string{tmpl.audience})
	}
	for k, v := range tmpl.extra {
		b = b.Claim(k, v)
	}

	tok, err := b.Build()
	require.NoError(t, err)
	return tok
}

func signToken(t *testing.T, tmpl tokenTemplate, alg jwa.SignatureAlgorithm, key any) string {
	t.Helper()

	signed, err := jwt.Sign(buildToken(t, tmpl), jwt.WithKey(alg, key))
	require.NoError(t, err)
	return string(signed)
}

func unsignedToken(header, payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func generateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv
}

func generateECKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return priv
}

func publicKeyPEM(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// jwkPair returns the private key for signing and a set holding its public
// half, both carrying kid.
func jwkPair(t *testing.T, priv *rsa.PrivateKey, kid string) (jwk.Key, jwk.Set) {
	t.Helper()

	privKey, err := jwk.FromRaw(priv)
	require.NoError(t, err)
	require.NoError(t, privKey.Set(jwk.KeyIDKey, kid))

	pubKey, err := jwk.FromRaw(&priv.PublicKey)
	require.NoError(t, err)
	require.NoError(t, pubKey.Set(jwk.KeyIDKey, kid))
	require.NoError(t, pubKey.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pubKey))
	return privKey, set
}

type staticKeySets struct {
	set   jwk.Set
	err   error
	calls int
}

func (s *staticKeySets) KeySet(context.Context) (jwk.Set, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

var errFetch = errors.New("jwks endpoint unreachable")

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(msg string, _ ...any) {
	r.warnings = append(r.warnings, msg)
}
func (r *recordingLogger) Error(string, ...any) {}
