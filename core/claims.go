package core

import (
	"encoding/json"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Claim names recognized by the normalizer.
const (
	ClaimSubject          = "sub"
	ClaimEmail            = "email"
	ClaimTenantID         = "tenant_id"
	ClaimTenant           = "tenant"
	ClaimNamespacedTenant = "https://claims/tenant"
	ClaimTenantIDCamel    = "tenantId"
	ClaimScope            = "scope"
	ClaimSessionID        = "sid"
	ClaimIssuer           = "iss"
	ClaimAudience         = "aud"
	ClaimTokenID          = "jti"
	ClaimExpiry           = "exp"
	ClaimPermissions      = "permissions"
)

// Header holds the fields read from the token's protected header. It carries
// no trust and is only used for diagnostics.
type Header struct {
	Algorithm string `json:"alg,omitempty"`
	KeyID     string `json:"kid,omitempty"`
	Type      string `json:"typ,omitempty"`
}

// Claims is the typed view of a token payload. Every field is optional; the
// consumers decide which of them are mandatory.
type Claims struct {
	Subject string
	Email   string

	// Tenant aliases, kept apart because the principal and the user resolve
	// them with different preference lists.
	TenantID         string
	Tenant           string
	NamespacedTenant string
	TenantIDCamel    string

	Scope     []string
	SessionID string
	Issuer    string
	Audience  []string
	ID        string
	Expiry    time.Time

	// Permissions is only meaningful when HasPermissions is true, i.e. the
	// permissions claim was present as an array.
	Permissions    []string
	HasPermissions bool

	raw map[string]any
}

// ClaimsFromMap extracts the recognized claims from a decoded payload.
func ClaimsFromMap(payload map[string]any) *Claims {
	c := &Claims{
		Subject:          claimString(payload[ClaimSubject]),
		Email:            claimString(payload[ClaimEmail]),
		TenantID:         claimString(payload[ClaimTenantID]),
		Tenant:           claimString(payload[ClaimTenant]),
		NamespacedTenant: claimString(payload[ClaimNamespacedTenant]),
		TenantIDCamel:    claimString(payload[ClaimTenantIDCamel]),
		Scope:            claimScopes(payload[ClaimScope]),
		SessionID:        claimString(payload[ClaimSessionID]),
		Issuer:           claimString(payload[ClaimIssuer]),
		Audience:         claimStrings(payload[ClaimAudience]),
		ID:               claimString(payload[ClaimTokenID]),
		Expiry:           claimTime(payload[ClaimExpiry]),
		raw:              maps.Clone(payload),
	}

	if permissions, ok := claimArray(payload[ClaimPermissions]); ok {
		c.Permissions = permissions
		c.HasPermissions = true
	}

	if c.raw == nil {
		c.raw = map[string]any{}
	}

	return c
}

// PrincipalTenant resolves the tenant for the principal: tenant_id, then
// tenant, then the namespaced claim, then tenantId. First non-empty wins.
func (c *Claims) PrincipalTenant() string {
	return firstNonEmpty(c.TenantID, c.Tenant, c.NamespacedTenant, c.TenantIDCamel)
}

// UserTenant resolves the tenant for the enriched user: tenant_id, then tenant.
func (c *Claims) UserTenant() string {
	return firstNonEmpty(c.TenantID, c.Tenant)
}

// Raw returns a copy of the full decoded payload.
func (c *Claims) Raw() map[string]any {
	if c == nil {
		return nil
	}
	return maps.Clone(c.raw)
}

// Get returns a single raw claim value.
func (c *Claims) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.raw[name]
	return v, ok
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// claimString accepts strings and numbers, the shapes identifiers are seen
// in. Anything else is treated as absent.
func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

// claimStrings accepts a single string or an array of strings.
func claimStrings(v any) []string {
	if s := claimString(v); s != "" {
		return []string{s}
	}
	values, _ := claimArray(v)
	if len(values) == 0 {
		return nil
	}
	return values
}

// claimScopes accepts a space-separated string or an array.
func claimScopes(v any) []string {
	if s, ok := v.(string); ok {
		parts := strings.Fields(s)
		if len(parts) == 0 {
			return nil
		}
		return parts
	}
	values, _ := claimArray(v)
	if len(values) == 0 {
		return nil
	}
	return values
}

// claimArray reports whether v is an array and returns its string entries.
func claimArray(v any) ([]string, bool) {
	switch values := v.(type) {
	case []string:
		return append([]string{}, values...), true
	case []any:
		out := make([]string, 0, len(values))
		for _, item := range values {
			if s := claimString(item); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func claimTime(v any) time.Time {
	switch value := v.(type) {
	case time.Time:
		return value
	case float64:
		return time.Unix(int64(value), 0)
	case int64:
		return time.Unix(value, 0)
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return time.Unix(n, 0)
		}
	}
	return time.Time{}
}
