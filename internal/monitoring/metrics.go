package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// ExternalAPIMetrics covers the outbound integrations: the Kafka and webhook
// notifiers. api_name is the breaker name.
type ExternalAPIMetrics struct {
	apiDuration         *prometheus.HistogramVec
	apiCalls            *prometheus.CounterVec
	circuitBreakerState *prometheus.GaugeVec
	timeouts            *prometheus.CounterVec
}

func NewExternalAPIMetrics() *ExternalAPIMetrics {
	return &ExternalAPIMetrics{
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeshield_external_api_duration_seconds",
			Help:    "Latency of outbound calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"api_name", "endpoint", "status"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_external_api_calls_total",
			Help: "Outbound calls by outcome",
		}, []string{"api_name", "status"}),
		circuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tradeshield_circuit_breaker_state",
			Help: "Breaker state: 0 closed, 1 half-open, 2 open",
		}, []string{"api_name"}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_external_api_timeouts_total",
			Help: "Outbound calls cut off by their deadline",
		}, []string{"api_name", "timeout_type"}),
	}
}

func (m *ExternalAPIMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(m.apiDuration, m.apiCalls, m.circuitBreakerState, m.timeouts)
}

func (m *ExternalAPIMetrics) RecordAPICall(apiName, endpoint, status string, seconds float64) {
	m.apiCalls.WithLabelValues(apiName, status).Inc()
	m.apiDuration.WithLabelValues(apiName, endpoint, status).Observe(seconds)
}

// UpdateCircuitBreakerState relies on gobreaker's state ordering matching
// the gauge's documented values.
func (m *ExternalAPIMetrics) UpdateCircuitBreakerState(apiName string, state gobreaker.State) {
	m.circuitBreakerState.WithLabelValues(apiName).Set(float64(state))
}

func (m *ExternalAPIMetrics) RecordTimeout(apiName, timeoutType string) {
	m.timeouts.WithLabelValues(apiName, timeoutType).Inc()
}
