package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics counts response cache lookups.
type CacheMetrics struct {
	lookups *prometheus.CounterVec
	errors  *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theta_cache_lookups_total",
		Help: "Response cache lookups by scope and result.",
	}, []string{"scope", "result"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theta_cache_errors_total",
		Help: "Response cache store failures by scope and operation.",
	}, []string{"scope", "op"})
	reg.MustRegister(lookups, errs)
	return &CacheMetrics{lookups: lookups, errors: errs}
}

func (m *CacheMetrics) IncHit(scope string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(scope), "hit").Inc()
}

func (m *CacheMetrics) IncMiss(scope string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(scope), "miss").Inc()
}

func (m *CacheMetrics) IncError(scope, op string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(scope), normalizeLabel(op)).Inc()
}
