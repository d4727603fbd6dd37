package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded per upstream call.
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeStatus    = "bad_status"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
	OutcomeCanceled  = "canceled"
)

// UpstreamMetrics records latency, outcomes and circuit breaker state for outbound calls.
type UpstreamMetrics struct {
	duration    *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	state       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "theta_upstream_request_duration_seconds",
		Help:    "Duration of upstream HTTP calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"upstream", "outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theta_upstream_requests_total",
		Help: "Upstream HTTP calls by outcome.",
	}, []string{"upstream", "outcome"})
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "theta_upstream_breaker_state",
		Help: "Circuit breaker state per upstream (0 closed, 1 half-open, 2 open).",
	}, []string{"upstream"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theta_upstream_breaker_transitions_total",
		Help: "Circuit breaker state transitions per upstream.",
	}, []string{"upstream", "from", "to"})
	reg.MustRegister(duration, requests, state, transitions)
	return &UpstreamMetrics{
		duration:    duration,
		requests:    requests,
		state:       state,
		transitions: transitions,
	}
}

// ObserveRequest records one upstream call.
func (m *UpstreamMetrics) ObserveRequest(upstream, outcome string, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	upstream = normalizeLabel(upstream)
	outcome = normalizeLabel(outcome)
	m.requests.WithLabelValues(upstream, outcome).Inc()
	m.duration.WithLabelValues(upstream, outcome).Observe(d.Seconds())
}

// SetBreakerState publishes the numeric breaker state.
func (m *UpstreamMetrics) SetBreakerState(upstream string, state float64) {
	if m == nil || m.state == nil {
		return
	}
	m.state.WithLabelValues(normalizeLabel(upstream)).Set(state)
}

// IncBreakerTransition counts a breaker state change.
func (m *UpstreamMetrics) IncBreakerTransition(upstream, from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(upstream), from, to).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
