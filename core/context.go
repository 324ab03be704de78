package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	userKey contextKey = iota
	principalKey
	jwtKey
)

// SetUser stores the current user in the context. Layers that run before the
// bearer middleware (API keys, sessions) use it to hand over what they know.
func SetUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the current user, or nil when none is attached.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userKey).(*User)
	return user
}

// SetPrincipal stores the principal in the context.
func SetPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the principal, or nil when none is attached.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalKey).(*Principal)
	return principal
}

// SetJWTContext stores the JWT context in the context.
func SetJWTContext(ctx context.Context, jwtCtx *JWTContext) context.Context {
	return context.WithValue(ctx, jwtKey, jwtCtx)
}

// JWTContextFromContext returns the JWT context, or nil when the request was
// not authenticated by a bearer token.
func JWTContextFromContext(ctx context.Context) *JWTContext {
	jwtCtx, _ := ctx.Value(jwtKey).(*JWTContext)
	return jwtCtx
}

// SetIdentity attaches all three identity records. A nil identity leaves the
// context untouched.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	if identity == nil {
		return ctx
	}
	ctx = SetUser(ctx, identity.User)
	ctx = SetPrincipal(ctx, identity.Principal)
	return SetJWTContext(ctx, identity.JWT)
}

// HasIdentity reports whether a bearer token identity is attached.
func HasIdentity(ctx context.Context) bool {
	return JWTContextFromContext(ctx) != nil
}
