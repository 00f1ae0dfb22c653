package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BackgroundJobMetrics covers the cron sweeps and the backlog they work on.
type BackgroundJobMetrics struct {
	jobDuration         *prometheus.HistogramVec
	jobRuns             *prometheus.CounterVec
	jobTimeouts         *prometheus.CounterVec
	activeJobs          prometheus.Gauge
	stalledJobs         prometheus.Gauge
	pendingTransactions *prometheus.GaugeVec
}

func NewBackgroundJobMetrics() *BackgroundJobMetrics {
	return &BackgroundJobMetrics{
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeshield_background_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"job_name", "status"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_background_job_runs_total",
			Help: "Scheduled job runs by outcome",
		}, []string{"job_name", "status"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_job_timeouts_total",
			Help: "Scheduled job runs cut off by their deadline",
		}, []string{"job_name"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tradeshield_background_jobs_active",
			Help: "Scheduled jobs running right now",
		}),
		stalledJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tradeshield_background_jobs_stalled",
			Help: "Scheduled jobs running past the stall threshold",
		}),
		pendingTransactions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tradeshield_pending_transactions_total",
			Help: "Swaps, INR transactions and escrow trades awaiting action",
		}, []string{"transaction_type"}),
	}
}

func (m *BackgroundJobMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.jobDuration,
		m.jobRuns,
		m.jobTimeouts,
		m.activeJobs,
		m.stalledJobs,
		m.pendingTransactions,
	)
}

// SetPendingTransactions sets the backlog gauge for kind (swap, inr or escrow).
func (m *BackgroundJobMetrics) SetPendingTransactions(kind string, count float64) {
	m.pendingTransactions.WithLabelValues(kind).Set(count)
}
