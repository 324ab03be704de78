package audit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismailkantarci/taxipartner-sub002/core"
	"github.com/ismailkantarci/taxipartner-sub002/internal/audit"
)

func TestMiddleware(t *testing.T) {
	t.Run("captures request info and status", func(t *testing.T) {
		var captured context.Context
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Context()
			assert.Equal(t, "kettle/1.0", audit.Log(r.Context()).UserAgent)
			w.WriteHeader(http.StatusTeapot)
		})

		req, w := requestSetup()
		audit.Middleware()(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Result().StatusCode)
		assert.Equal(t, http.StatusTeapot, audit.Log(captured).Status)
	})

	t.Run("log written", func(t *testing.T) {
		auditWritten := false
		ctx := withLogHook(context.Background(), func(e *zerolog.Event, level zerolog.Level, msg string) {
			if level == audit.Level {
				auditWritten = true
			}
		})

		req, w := requestSetup()
		audit.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(w, req.WithContext(ctx))

		assert.True(t, auditWritten, "audit log entry should be written")
	})

	t.Run("log written on panic", func(t *testing.T) {
		var entry *audit.Entry
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry = audit.Log(r.Context())
			entry.Error = "failure pre-panic"
			panic("not a teapot")
		})

		req, w := requestSetup()
		assert.PanicsWithValue(t, "not a teapot", func() {
			audit.Middleware()(handler).ServeHTTP(w, req)
		})

		assert.Equal(t, "failure pre-panic; panic: not a teapot", entry.Error)
		assert.Equal(t, http.StatusInternalServerError, entry.Status)
	})
}

func TestRecordIdentity(t *testing.T) {
	expiry := time.Unix(1893456000, 0)

	t.Run("authenticated", func(t *testing.T) {
		claims := core.ClaimsFromMap(map[string]any{
			"sub":       "driver-17",
			"iss":       "https://issuer.example.com/",
			"aud":       "taxipartner-api",
			"tenant_id": "vienna",
			"exp":       float64(expiry.Unix()),
		})
		user, principal, jwtCtx := core.Normalize(nil, nil, claims, "abc123", nil)

		var entry *audit.Entry
		handler := audit.Middleware()(audit.RecordIdentity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry = audit.Log(r.Context())
		})))

		req, w := requestSetup()
		ctx := core.SetIdentity(req.Context(), &core.Identity{User: user, Principal: principal, JWT: jwtCtx})
		handler.ServeHTTP(w, req.WithContext(ctx))

		require.NotNil(t, entry)
		assert.True(t, entry.Authenticated)
		assert.Equal(t, "driver-17", entry.AuthSubject)
		assert.Equal(t, "https://issuer.example.com/", entry.AuthIssuer)
		assert.Equal(t, []string{"taxipartner-api"}, entry.AuthAudience)
		assert.Equal(t, "vienna", entry.AuthTenant)
		assert.Equal(t, "abc123", entry.TokenHash)
		assert.True(t, expiry.Equal(entry.AuthExpiry))
	})

	t.Run("anonymous", func(t *testing.T) {
		var entry *audit.Entry
		handler := audit.Middleware()(audit.RecordIdentity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry = audit.Log(r.Context())
		})))

		req, w := requestSetup()
		handler.ServeHTTP(w, req)

		require.NotNil(t, entry)
		assert.False(t, entry.Authenticated)
		assert.Empty(t, entry.TokenHash)
	})
}

func TestAuditing(t *testing.T) {
	ctx := context.Background()
	r, _ := requestSetup()

	_, e := audit.Context(ctx)
	e.Begin(r)
	e.End(ctx)()

	assert.NotEmpty(t, e.SourceIP)
	e.SourceIP = ""

	assert.Equal(t, &audit.Entry{Method: "GET", Path: "/api/me", UserAgent: "kettle/1.0", Status: 200}, e)
}

func requestSetup() (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/me", nil)
	req.Header.Set("User-Agent", "kettle/1.0")
	return req, httptest.NewRecorder()
}

func withLogHook(ctx context.Context, hook zerolog.HookFunc) context.Context {
	testLog := log.Logger.With().Logger().Hook(hook)
	return testLog.WithContext(ctx)
}
