package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	const hash = "f00d"
	header := &Header{Algorithm: "RS256", KeyID: "key-1"}

	tests := []struct {
		name          string
		existingUser  *User
		existingPrinc *Principal
		payload       map[string]any
		wantUser      *User
		wantPrincipal *Principal
	}{
		{
			name: "fresh request takes everything from the token",
			payload: map[string]any{
				"sub":       "user-1",
				"email":     "user@example.com",
				"tenant_id": "tenant-a",
				"sid":       "session-1",
				"scope":     "read write",
				"iss":       "https://issuer.example.com",
				"aud":       "identity",
				"jti":       "token-1",
			},
			wantUser: &User{
				ID:          "user-1",
				Email:       "user@example.com",
				TenantID:    "tenant-a",
				SessionID:   "session-1",
				Permissions: []string{},
				Token: &TokenContext{
					Issuer:   "https://issuer.example.com",
					Audience: []string{"identity"},
					Subject:  "user-1",
					ID:       "token-1",
					Hash:     hash,
				},
			},
			wantPrincipal: &Principal{
				Subject:  "user-1",
				Email:    "user@example.com",
				TenantID: "tenant-a",
				Scope:    []string{"read", "write"},
			},
		},
		{
			name: "namespaced tenant reaches the principal only",
			payload: map[string]any{
				"sub":                   "user-1",
				"https://claims/tenant": "tenant-ns",
			},
			wantUser: &User{
				ID:          "user-1",
				Permissions: []string{},
				Token:       &TokenContext{Subject: "user-1", Hash: hash},
			},
			wantPrincipal: &Principal{Subject: "user-1", TenantID: "tenant-ns"},
		},
		{
			name: "tenant_id wins over tenant",
			payload: map[string]any{
				"tenant_id": "primary",
				"tenant":    "secondary",
				"tenantId":  "camel",
			},
			wantUser: &User{
				TenantID:    "primary",
				Permissions: []string{},
				Token:       &TokenContext{Hash: hash},
			},
			wantPrincipal: &Principal{TenantID: "primary"},
		},
		{
			name: "camel case tenant is the last alias",
			payload: map[string]any{
				"tenantId": "camel",
			},
			wantUser: &User{
				Permissions: []string{},
				Token:       &TokenContext{Hash: hash},
			},
			wantPrincipal: &Principal{TenantID: "camel"},
		},
		{
			name:          "existing principal wins, token overlays user",
			existingUser:  &User{ID: "old", Email: "old@example.com", Permissions: []string{"old.perm"}, Attributes: map[string]any{"locale": "de"}},
			existingPrinc: &Principal{Subject: "api-key", TenantID: "tenant-key"},
			payload: map[string]any{
				"sub":       "user-1",
				"tenant_id": "tenant-a",
			},
			wantUser: &User{
				ID:          "user-1",
				Email:       "old@example.com",
				TenantID:    "tenant-a",
				Permissions: []string{"old.perm"},
				Attributes:  map[string]any{"locale": "de"},
				Token:       &TokenContext{Subject: "user-1", Hash: hash},
			},
			wantPrincipal: &Principal{Subject: "api-key", TenantID: "tenant-key"},
		},
		{
			name:         "permissions array replaces existing, even when empty",
			existingUser: &User{Permissions: []string{"old.perm"}},
			payload: map[string]any{
				"permissions": []any{},
			},
			wantUser: &User{
				Permissions: []string{},
				Token:       &TokenContext{Hash: hash},
			},
			wantPrincipal: &Principal{},
		},
		{
			name:         "non-array permissions keep existing",
			existingUser: &User{Permissions: []string{"old.perm"}},
			payload: map[string]any{
				"permissions": "admin",
			},
			wantUser: &User{
				Permissions: []string{"old.perm"},
				Token:       &TokenContext{Hash: hash},
			},
			wantPrincipal: &Principal{},
		},
		{
			name: "previous token context fills gaps but hash is new",
			existingUser: &User{
				Token: &TokenContext{Issuer: "old-iss", Audience: []string{"old-aud"}, ID: "old-jti", Hash: "old-hash"},
			},
			payload: map[string]any{"sub": "user-1"},
			wantUser: &User{
				ID:          "user-1",
				Permissions: []string{},
				Token: &TokenContext{
					Issuer:   "old-iss",
					Audience: []string{"old-aud"},
					Subject:  "user-1",
					ID:       "old-jti",
					Hash:     hash,
				},
			},
			wantPrincipal: &Principal{Subject: "user-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, principal, jwtCtx := Normalize(tt.existingUser, tt.existingPrinc, ClaimsFromMap(tt.payload), hash, header)

			if diff := cmp.Diff(tt.wantUser, user); diff != "" {
				t.Errorf("user mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPrincipal, principal); diff != "" {
				t.Errorf("principal mismatch (-want +got):\n%s", diff)
			}

			require.NotNil(t, jwtCtx)
			assert.Equal(t, hash, jwtCtx.TokenHash)
			assert.Same(t, header, jwtCtx.Header)
		})
	}
}

func TestNormalize_DoesNotMutateInputs(t *testing.T) {
	existingUser := &User{ID: "old", Permissions: []string{"a"}, Attributes: map[string]any{"k": "v"}}
	existingPrincipal := &Principal{Scope: []string{"s"}}

	user, principal, _ := Normalize(existingUser, existingPrincipal, ClaimsFromMap(map[string]any{
		"sub":         "new",
		"permissions": []any{"b"},
	}), "hash", nil)

	user.Attributes["k"] = "changed"
	principal.Scope[0] = "changed"

	assert.Equal(t, "old", existingUser.ID)
	assert.Equal(t, []string{"a"}, existingUser.Permissions)
	assert.Equal(t, "v", existingUser.Attributes["k"])
	assert.Equal(t, []string{"s"}, existingPrincipal.Scope)
	assert.Nil(t, existingUser.Token)
}

func TestNormalize_Idempotent(t *testing.T) {
	claims := ClaimsFromMap(map[string]any{
		"sub":         "user-1",
		"tenant":      "tenant-a",
		"permissions": []any{"x"},
	})

	user1, principal1, _ := Normalize(nil, nil, claims, "hash", nil)
	user2, principal2, _ := Normalize(user1, principal1, claims, "hash", nil)

	if diff := cmp.Diff(user1, user2); diff != "" {
		t.Errorf("user changed on second pass (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(principal1, principal2); diff != "" {
		t.Errorf("principal changed on second pass (-first +second):\n%s", diff)
	}
}

func TestNormalize_NilClaims(t *testing.T) {
	user, principal, jwtCtx := Normalize(nil, nil, nil, "hash", nil)

	assert.Equal(t, []string{}, user.Permissions)
	assert.Equal(t, &Principal{}, principal)
	assert.NotNil(t, jwtCtx.Claims)
	assert.Empty(t, jwtCtx.Subject())
}

func TestJWTContext_Accessors(t *testing.T) {
	jwtCtx := &JWTContext{Claims: ClaimsFromMap(map[string]any{
		"sub": "user-1",
		"iss": "issuer",
		"aud": []any{"a", "b"},
		"sid": "session",
	})}

	assert.Equal(t, "user-1", jwtCtx.Subject())
	assert.Equal(t, "issuer", jwtCtx.Issuer())
	assert.Equal(t, []string{"a", "b"}, jwtCtx.Audience())
	assert.Equal(t, "session", jwtCtx.SessionID())

	var empty *JWTContext
	assert.Empty(t, empty.Subject())
	assert.Nil(t, empty.Audience())
}
