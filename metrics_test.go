package jwtmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	m.ObserveVerification(OutcomeAuthenticated, "", 3*time.Millisecond)
	m.ObserveVerification(OutcomeRejected, "invalid_token", time.Millisecond)
	m.ObserveVerification(OutcomeRejected, "invalid_token", time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeAuthenticated, "")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeRejected, "invalid_token")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	t.Run("double registration fails", func(t *testing.T) {
		_, err := NewPrometheusMetrics(reg)
		assert.Error(t, err)
	})

	t.Run("nil registerer", func(t *testing.T) {
		_, err := NewPrometheusMetrics(nil)
		assert.Error(t, err)
	})
}

func TestMiddlewareMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	m := newTestMiddleware(t, secretConfig(), WithMetrics(metrics))
	handler := m.CheckJWT(recordingHandler(&recordedRequest{}))

	send := func(authorization string) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	send("")
	send("Bearer " + signHS256(t, validClaims()))
	send("Bearer garbage")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues(OutcomeNoCredential, "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues(OutcomeAuthenticated, "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues(OutcomeRejected, "malformed_token")))
}
