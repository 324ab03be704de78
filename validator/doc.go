/*
Package validator verifies bearer tokens using the lestrrat-go/jwx v2 library.

A Validator is built once from config.AuthConfig. It resolves the signature
algorithm and the key source at construction and applies them to every token.

# Algorithm

ResolveAlgorithm picks, in order:

  - JWT_ALG when it is one of HS256, HS384, HS512, RS256, RS384, RS512,
    ES256, ES384, ES512
  - HS256 when JWT_SECRET is set
  - RS256 otherwise

The token header must name exactly the resolved algorithm. "none" and any
other algorithm are rejected before a key is looked up.

# Key Source

SelectKeySource uses the first configured of JWT_JWKS_URL (through a
KeySetProvider such as jwks.Provider), JWT_PUBLIC_KEY and JWT_SECRET. A
public key stored with escaped newlines is normalized by NormalizePEM.

# Verification

	v, err := validator.New(cfg.Auth,
	    validator.WithKeySetProvider(provider),
	    validator.WithLogger(logger),
	)
	if err != nil {
	    log.Fatal(err)
	}

	verified, err := v.ValidateToken(ctx, token)

Signature, issuer, audience, algorithm and time claim failures are all
reported as core.ErrInvalidToken. Failing to fetch the remote key set is
core.ErrKeyRetrievalFailed.

# Unverified Mode

With JWT_ALLOW_UNVERIFIED the payload is only decoded. Structurally broken
tokens fail with core.ErrMalformedToken and expired tokens still fail with
core.ErrInvalidToken. This mode must never be enabled in production.
*/
package validator
