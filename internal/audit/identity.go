package audit

import (
	"net/http"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// RecordIdentity copies the JWT context attached by the authentication
// middleware into the request's audit entry.
func RecordIdentity() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			entry := Log(ctx)

			if jwtCtx := core.JWTContextFromContext(ctx); jwtCtx != nil {
				entry.Authenticated = true
				entry.AuthSubject = jwtCtx.Subject()
				entry.AuthIssuer = jwtCtx.Issuer()
				entry.AuthAudience = jwtCtx.Audience()
				entry.TokenHash = jwtCtx.TokenHash
				if jwtCtx.Claims != nil {
					entry.AuthExpiry = jwtCtx.Claims.Expiry
				}
			}
			if principal := core.PrincipalFromContext(ctx); principal != nil {
				entry.AuthTenant = principal.TenantID
			}

			next.ServeHTTP(w, r)
		})
	}
}
