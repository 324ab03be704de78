// Package audit writes one structured log record per request, including the
// identity the bearer token established.
package audit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var _ zerolog.LogObjectMarshaler = (*Entry)(nil)

type key struct{}

const (
	// Level is the log level at which audit logs are written.
	Level = zerolog.Level(20)
)

var logKey = key{}

// Entry is an audit log entry for the current request. It never carries the
// raw token, only its hash.
type Entry struct {
	Method        string
	Path          string
	Status        int
	SourceIP      string
	UserAgent     string
	Authenticated bool
	AuthSubject   string
	AuthIssuer    string
	AuthAudience  []string
	AuthTenant    string
	AuthExpiry    time.Time
	TokenHash     string
	Error         string
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (e *Entry) MarshalZerologObject(event *zerolog.Event) {
	event.Str("method", e.Method).
		Str("path", e.Path).
		Int("status", e.Status).
		Str("sourceIP", e.SourceIP).
		Str("userAgent", e.UserAgent).
		Bool("authenticated", e.Authenticated).
		Str("authSubject", e.AuthSubject).
		Str("authIssuer", e.AuthIssuer).
		Str("authTenant", e.AuthTenant).
		Str("tokenHash", e.TokenHash).
		Str("error", e.Error)

	if !e.AuthExpiry.IsZero() {
		event.Time("authExpiry", e.AuthExpiry)
		event.Dur("authExpiryRemaining", time.Until(e.AuthExpiry).Round(time.Millisecond))
	}

	if len(e.AuthAudience) > 0 {
		event.Strs("authAudience", e.AuthAudience)
	}
}

// Begin records the request details.
func (e *Entry) Begin(r *http.Request) {
	e.Path = r.URL.Path
	e.Method = r.Method
	e.UserAgent = r.UserAgent()
	e.SourceIP = r.RemoteAddr
}

// End writes the audit log entry. If the returned func is deferred, a panic
// is recorded in the entry and re-raised after the entry is written.
func (e *Entry) End(ctx context.Context) func() {
	return func() {
		r := recover()
		if r != nil {
			e.Status = http.StatusInternalServerError
			err := fmt.Sprintf("panic: %v", r)
			if e.Error != "" {
				e.Error += "; "
			}
			e.Error += err
		}

		if e.Status == 0 {
			e.Status = http.StatusOK
		}

		zerolog.Ctx(ctx).WithLevel(Level).EmbedObject(e).Str("type", "audit").Msg("audit_event")

		if r != nil {
			panic(r)
		}
	}
}

// Middleware creates the audit entry for each request and writes it when the
// request completes. Place it outside the authentication middleware and
// place RecordIdentity inside it.
func Middleware() func(next http.Handler) http.Handler {
	zerologConfiguration()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, entry := Context(r.Context())

			response := wrapResponseWriter(w, entry)

			entry.Begin(r)
			defer entry.End(ctx)()

			next.ServeHTTP(response, r.WithContext(ctx))
		})
	}
}

// Log returns the entry for the current request. It is safe to use when the
// context has no entry, but writes to the result are then lost.
func Log(ctx context.Context) *Entry {
	_, e := Context(ctx)
	return e
}

// Context returns the Entry for the current request, creating one if it
// does not exist.
func Context(ctx context.Context) (context.Context, *Entry) {
	e, ok := ctx.Value(logKey).(*Entry)
	if !ok {
		e = &Entry{}
		ctx = context.WithValue(ctx, logKey, e)
	}

	return ctx, e
}

func zerologConfiguration() {
	zerolog.FormattedLevels[Level] = "AUD"

	marshal := zerolog.LevelFieldMarshalFunc
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		if l == Level {
			return "audit"
		}
		return marshal(l)
	}
}
