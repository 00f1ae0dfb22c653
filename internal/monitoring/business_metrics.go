package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	operationSwap   = "swap_request"
	operationEscrow = "escrow_transition"
	operationInr    = "inr_transaction"
	operationOracle = "oracle_operation"
)

var businessLabels = []string{"operation_type", "category", "status"}

type businessMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newBusinessMetrics() businessMetrics {
	return businessMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_business_operations_total",
			Help: "Swap, INR, escrow and rate operations by outcome",
		}, businessLabels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeshield_business_operation_duration_seconds",
			Help:    "Duration of swap, INR, escrow and rate operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, businessLabels),
	}
}

func (b businessMetrics) mustRegister(registry *prometheus.Registry) {
	registry.MustRegister(b.operations, b.duration)
}

func (b businessMetrics) record(operationType, category, status string, seconds float64) {
	b.operations.WithLabelValues(operationType, category, status).Inc()
	if seconds > 0 {
		b.duration.WithLabelValues(operationType, category, status).Observe(seconds)
	}
}

// BusinessMetricsRecorder is what controllers hold to count domain
// operations. The category label carries the operation or escrow action.
type BusinessMetricsRecorder struct {
	metrics *HTTPMetrics
}

func NewBusinessMetricsRecorder(metrics *HTTPMetrics) *BusinessMetricsRecorder {
	return &BusinessMetricsRecorder{metrics: metrics}
}

func (r *BusinessMetricsRecorder) RecordSwapRequest(operation, status string, duration float64) {
	r.metrics.business.record(operationSwap, operation, status, duration)
}

func (r *BusinessMetricsRecorder) RecordEscrowTransition(action, status string, duration float64) {
	r.metrics.business.record(operationEscrow, action, status, duration)
}

func (r *BusinessMetricsRecorder) RecordInrTransaction(operation, status string, duration float64) {
	r.metrics.business.record(operationInr, operation, status, duration)
}

func (r *BusinessMetricsRecorder) RecordOracleOperation(operation, status string, duration float64) {
	r.metrics.business.record(operationOracle, operation, status, duration)
}
