package jwtmiddleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcomes reported to Metrics and to the trace span.
const (
	OutcomeNoCredential  = "no_credential"
	OutcomeAuthenticated = "authenticated"
	OutcomeAnonymous     = "anonymous"
	OutcomeRejected      = "rejected"
)

// Metrics records the result of each bearer token check.
type Metrics interface {
	// ObserveVerification is called once per request that reached the token
	// check. code is empty unless the outcome is OutcomeRejected.
	ObserveVerification(outcome, code string, duration time.Duration)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) ObserveVerification(string, string, time.Duration) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	verifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the middleware collectors with reg. Passing
// a dedicated registry keeps tests independent of the global one.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer cannot be nil")
	}

	m := &PrometheusMetrics{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Subsystem: "auth",
			Name:      "verifications_total",
			Help:      "Bearer token checks by outcome and error code.",
		}, []string{"outcome", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "identity",
			Subsystem: "auth",
			Name:      "verification_duration_seconds",
			Help:      "Time spent verifying bearer tokens.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.verifications, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *PrometheusMetrics) ObserveVerification(outcome, code string, duration time.Duration) {
	m.verifications.WithLabelValues(outcome, code).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}
