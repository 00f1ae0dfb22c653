package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedPath = "unmatched"

var httpLabels = []string{"method", "path", "status"}

// HTTPMetrics holds the request metrics of the API and the business
// counters fed by BusinessMetricsRecorder.
type HTTPMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	responseSize     *prometheus.HistogramVec
	inFlightRequests *prometheus.GaugeVec

	business businessMetrics
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeshield_http_request_duration_seconds",
			Help:    "API request latency by route template",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, httpLabels),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradeshield_http_requests_total",
			Help: "API requests by route template and status code",
		}, httpLabels),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradeshield_http_response_size_bytes",
			Help:    "API response body size",
			Buckets: prometheus.ExponentialBuckets(100, 2, 8),
		}, httpLabels),
		inFlightRequests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tradeshield_http_requests_in_flight",
			Help: "API requests currently being served",
		}, []string{"method", "path"}),
		business: newBusinessMetrics(),
	}
}

func (m *HTTPMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.responseSize,
		m.inFlightRequests,
	)
	m.business.mustRegister(registry)
}

// HTTPMetricsMiddleware labels requests with the gin route template, never
// the raw URL, so ids in paths do not create new series. Requests that match
// no route share the "unmatched" label.
func HTTPMetricsMiddleware(metrics *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}

		inFlight := metrics.inFlightRequests.WithLabelValues(method, path)
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.requestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		metrics.requestsTotal.WithLabelValues(method, path, status).Inc()
		if size := c.Writer.Size(); size > 0 {
			metrics.responseSize.WithLabelValues(method, path, status).Observe(float64(size))
		}
	}
}
