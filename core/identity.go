package core

import (
	"maps"
	"slices"
)

// Principal is the normalized identity fact used for tenant scoping and
// authorization. Fields set earlier in the pipeline (for example by an API
// key layer) are never overwritten by token-derived values.
type Principal struct {
	Subject  string   `json:"sub,omitempty"`
	Email    string   `json:"email,omitempty"`
	TenantID string   `json:"tenant_id,omitempty"`
	Scope    []string `json:"scope,omitempty"`
}

// TokenContext records which token established the current user.
type TokenContext struct {
	Issuer   string   `json:"iss,omitempty"`
	Audience []string `json:"aud,omitempty"`
	Subject  string   `json:"sub,omitempty"`
	ID       string   `json:"jti,omitempty"`
	Hash     string   `json:"hash,omitempty"`
}

// User is the current user record. Token-derived identity fields take
// precedence over whatever was attached before the middleware ran.
type User struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email,omitempty"`
	TenantID    string   `json:"tenant_id,omitempty"`
	SessionID   string   `json:"sid,omitempty"`
	Permissions []string `json:"permissions"`

	// Attributes carries any other data an earlier layer attached to the user.
	Attributes map[string]any `json:"attributes,omitempty"`

	// Token is kept out of serialized output.
	Token *TokenContext `json:"-"`
}

// JWTContext is read by audit logging. It must never be written to a
// response body.
type JWTContext struct {
	Header    *Header
	Claims    *Claims
	TokenHash string
}

// Subject returns the sub claim.
func (j *JWTContext) Subject() string {
	if j == nil || j.Claims == nil {
		return ""
	}
	return j.Claims.Subject
}

// Issuer returns the iss claim.
func (j *JWTContext) Issuer() string {
	if j == nil || j.Claims == nil {
		return ""
	}
	return j.Claims.Issuer
}

// Audience returns the aud claim.
func (j *JWTContext) Audience() []string {
	if j == nil || j.Claims == nil {
		return nil
	}
	return j.Claims.Audience
}

// SessionID returns the sid claim.
func (j *JWTContext) SessionID() string {
	if j == nil || j.Claims == nil {
		return ""
	}
	return j.Claims.SessionID
}

// Identity groups the three records attached to an authenticated request.
type Identity struct {
	User      *User
	Principal *Principal
	JWT       *JWTContext
}

// Normalize derives the enriched user, the principal and the JWT context from
// verified claims. It does not modify its inputs.
func Normalize(existingUser *User, existingPrincipal *Principal, claims *Claims, tokenHash string, header *Header) (*User, *Principal, *JWTContext) {
	if claims == nil {
		claims = ClaimsFromMap(nil)
	}

	jwtCtx := &JWTContext{
		Header:    header,
		Claims:    claims,
		TokenHash: tokenHash,
	}

	return buildUser(existingUser, claims, tokenHash), buildPrincipal(existingPrincipal, claims), jwtCtx
}

func buildPrincipal(existing *Principal, claims *Claims) *Principal {
	p := &Principal{
		Subject:  claims.Subject,
		Email:    claims.Email,
		TenantID: claims.PrincipalTenant(),
		Scope:    slices.Clone(claims.Scope),
	}

	if existing == nil {
		return p
	}

	if existing.Subject != "" {
		p.Subject = existing.Subject
	}
	if existing.Email != "" {
		p.Email = existing.Email
	}
	if existing.TenantID != "" {
		p.TenantID = existing.TenantID
	}
	if existing.Scope != nil {
		p.Scope = slices.Clone(existing.Scope)
	}

	return p
}

func buildUser(existing *User, claims *Claims, tokenHash string) *User {
	if existing == nil {
		existing = &User{}
	}

	u := &User{
		ID:         firstNonEmpty(claims.Subject, existing.ID),
		Email:      firstNonEmpty(claims.Email, existing.Email),
		TenantID:   firstNonEmpty(claims.UserTenant(), existing.TenantID),
		SessionID:  firstNonEmpty(claims.SessionID, existing.SessionID),
		Attributes: maps.Clone(existing.Attributes),
	}

	switch {
	case claims.HasPermissions:
		u.Permissions = slices.Clone(claims.Permissions)
	case existing.Permissions != nil:
		u.Permissions = slices.Clone(existing.Permissions)
	}
	if u.Permissions == nil {
		u.Permissions = []string{}
	}

	previous := existing.Token
	if previous == nil {
		previous = &TokenContext{}
	}

	u.Token = &TokenContext{
		Issuer:   firstNonEmpty(claims.Issuer, previous.Issuer),
		Audience: slices.Clone(claims.Audience),
		Subject:  firstNonEmpty(claims.Subject, previous.Subject),
		ID:       firstNonEmpty(claims.ID, previous.ID),
		Hash:     tokenHash,
	}
	if u.Token.Audience == nil {
		u.Token.Audience = slices.Clone(previous.Audience)
	}

	return u
}
