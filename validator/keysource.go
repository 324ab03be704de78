package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/ismailkantarci/taxipartner-sub002/config"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// KeySource supplies the key used to verify a token signature.
type KeySource interface {
	// Name is the configuration variable the source was built from.
	Name() string
	// Key returns the verification key for the token's kid. Errors are
	// *core.ValidationError values.
	Key(ctx context.Context, kid string) (any, error)
}

// KeySetProvider returns the current remote key set. jwks.Provider
// implements it.
type KeySetProvider interface {
	KeySet(ctx context.Context) (jwk.Set, error)
}

// SelectKeySource builds the key source from the configuration. The remote
// key set wins over the static public key, which wins over the shared secret.
// It returns a *core.ValidationError with code no_verifier_configured when
// none of them is set.
func SelectKeySource(cfg config.AuthConfig, keySets KeySetProvider) (KeySource, error) {
	switch {
	case cfg.JWKSURL != "":
		if keySets == nil {
			return nil, errors.New("JWT_JWKS_URL is set but no key set provider was supplied")
		}
		return &remoteKeySource{keySets: keySets}, nil

	case cfg.PublicKey != "":
		key, err := jwk.ParseKey([]byte(NormalizePEM(cfg.PublicKey)), jwk.WithPEM(true))
		if err != nil {
			return nil, fmt.Errorf("could not import JWT_PUBLIC_KEY: %w", err)
		}
		return &staticKeySource{name: "JWT_PUBLIC_KEY", key: key}, nil

	case cfg.Secret != "":
		return &staticKeySource{name: "JWT_SECRET", key: []byte(cfg.Secret)}, nil

	default:
		return nil, core.NoVerifierConfigured()
	}
}

// NormalizePEM undoes the escaping PEM blocks get when stored in a single
// line environment variable: carriage returns are dropped and literal \n
// sequences become newlines.
func NormalizePEM(pem string) string {
	pem = strings.ReplaceAll(pem, "\r", "")
	return strings.ReplaceAll(pem, `\n`, "\n")
}

type staticKeySource struct {
	name string
	key  any
}

func (s *staticKeySource) Name() string { return s.name }

func (s *staticKeySource) Key(context.Context, string) (any, error) {
	return s.key, nil
}

type remoteKeySource struct {
	keySets KeySetProvider
}

func (r *remoteKeySource) Name() string { return "JWT_JWKS_URL" }

func (r *remoteKeySource) Key(ctx context.Context, kid string) (any, error) {
	set, err := r.keySets.KeySet(ctx)
	if err != nil {
		return nil, core.KeyRetrievalFailed(err)
	}

	if kid != "" {
		key, ok := set.LookupKeyID(kid)
		if !ok {
			return nil, core.InvalidToken(fmt.Errorf("no key with kid %q in key set", kid))
		}
		return key, nil
	}

	// Without a kid only an unambiguous key set can be used.
	if set.Len() != 1 {
		return nil, core.InvalidToken(fmt.Errorf("token has no kid and key set holds %d keys", set.Len()))
	}
	key, _ := set.Key(0)
	return key, nil
}
