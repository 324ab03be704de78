/*
Package core provides framework-agnostic bearer token authentication that can
be used across different transport layers (HTTP, gRPC, etc.).

The Core type encapsulates the trust decision without dependencies on any
specific transport protocol. HTTP, gin, echo and gRPC adapters all call the
same CheckToken and differ only in how they report the result.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gin, echo, gRPC)                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core (THIS PACKAGE)                │
	│  • Failure and bypass policy                │
	│  • Claims normalization                     │
	│  • Identity context helpers                 │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Validator                          │
	│  (algorithm and key selection, signature,   │
	│   issuer, audience and time claim checks)   │
	└─────────────────────────────────────────────┘

# Basic Usage

	c, err := core.New(
	    core.WithValidator(val),
	    core.WithAllowUnverified(cfg.Auth.AllowUnverified.Enabled()),
	)
	if err != nil {
	    log.Fatal(err)
	}

	identity, err := c.CheckToken(ctx, token)
	if err != nil {
	    // reject with 401
	}
	if identity != nil {
	    ctx = core.SetIdentity(ctx, identity)
	}

# Identity

A verified token produces three records:

  - User: the enriched current user. Subject, email, tenant, session id and
    permissions from the token replace whatever was attached before.
  - Principal: the security principal used for tenant scoping. Values set
    earlier in the pipeline (for example by an API key layer) are kept.
  - JWTContext: the header, the full claims and the token hash. It is meant
    for audit logging and must never be written to a response.

Retrieve them with UserFromContext, PrincipalFromContext and
JWTContextFromContext.

# Error Handling

Every failure is a *ValidationError carrying one of the codes below, and
matches ErrJWTInvalid through errors.Is:

	malformed_token          ErrMalformedToken
	verifier_misconfigured   ErrVerifierMisconfigured
	no_verifier_configured   ErrNoVerifierConfigured
	invalid_token            ErrInvalidToken
	key_retrieval_failed     ErrKeyRetrievalFailed

Message is safe to show to clients. Details holds the library error and is
only logged.

# Logging

The raw token is never logged. Failures are logged with their code and the
hex SHA-256 of the token, which can be correlated with the JWTContext of
successful requests.
*/
package core
