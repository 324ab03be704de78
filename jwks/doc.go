/*
Package jwks serves remote signing keys to the validator.

A Provider is bound to one JWKS URL (JWT_JWKS_URL). It wraps the
lestrrat-go/jwx v2 jwk.Cache, which fetches the key set on first use,
refreshes it in the background and honors Cache-Control headers. The
provider adds a per-call fetch timeout and an OpenTelemetry instrumented
HTTP client.

	provider, err := jwks.NewProvider(ctx, cfg.Auth.JWKSURL,
	    jwks.WithMinRefreshInterval(cfg.Auth.JWKSRefreshInterval),
	    jwks.WithFetchTimeout(cfg.Auth.JWKSFetchTimeout),
	)
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(cfg.Auth, validator.WithKeySetProvider(provider))

There is no OIDC discovery: the JWKS URL is configured directly.
*/
package jwks
