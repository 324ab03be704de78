/*
Package jwtmiddleware provides net/http middleware that turns an optional
Bearer token into a trusted user and principal on the request context.

A request without a Bearer credential passes through untouched. A token that
verifies attaches three records, read with core.UserFromContext,
core.PrincipalFromContext and core.JWTContextFromContext. A token that fails
verification is rejected with 401, unless unverified tokens are allowed, in
which case the request continues without identity.

# Quick Start

	cfg, err := config.Load(ctx)
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(cfg.Auth)
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := jwtmiddleware.New(
	    jwtmiddleware.WithValidator(v),
	    jwtmiddleware.WithAllowUnverified(cfg.Auth.AllowUnverified.Enabled()),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/me", middleware.CheckJWT(handler))

With JWT_JWKS_URL set, create a jwks.Provider and pass it with
validator.WithKeySetProvider.

# Rejections

DefaultErrorHandler writes

	HTTP/1.1 401 Unauthorized
	Content-Type: application/json
	WWW-Authenticate: Bearer error="invalid_token"

	{"ok":false,"error":"invalid_token","detail":"token verification failed"}

The detail is the fixed public message of the failure kind (see
core.ValidationError). Library error text and token contents are never
written to the client. Use WithErrorHandler to change the response.

# Token extraction

AuthHeaderTokenExtractor matches "Bearer <token>" with a case-insensitive
scheme. Any other scheme counts as no credential. When the header is
repeated only the first value is considered.

# Observability

WithLogger accepts any Logger; NewZerologLogger, NewZapLogger and
NewLogrusLogger adapt the common libraries. WithMetrics records every check
by outcome (no_credential, authenticated, anonymous, rejected) and error
code; NewPrometheusMetrics backs it with client_golang. Every verification
runs in a "jwt.verify" OpenTelemetry span.

# Frameworks

framework/gin and framework/echo wrap CheckJWT and copy the identity into
the framework context. framework/grpc provides interceptors around the same
core.Core, available from JWTMiddleware.Core.
*/
package jwtmiddleware
