package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/tradeshield-backend/internal/monitoring"
)

func scrape(registry *prometheus.Registry, accept string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", New(registry).Metrics)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMetrics_BusinessCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)

	recorder := monitoring.NewBusinessMetricsRecorder(httpMetrics)
	recorder.RecordSwapRequest("create", "success", 0.02)
	recorder.RecordEscrowTransition("fund", "success", 0.01)

	w := scrape(registry, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.Contains(t, body, "# TYPE tradeshield_business_operations_total counter")
	assert.Contains(t, body, `category="create"`)
	assert.Contains(t, body, `category="fund"`)
}

func TestMetrics_CircuitBreakerGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	apiMetrics := monitoring.NewExternalAPIMetrics()
	apiMetrics.MustRegister(registry)
	apiMetrics.RecordAPICall("notify_kafka", "publish", "success", 0.005)

	w := scrape(registry, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tradeshield_external_api_calls_total{api_name="notify_kafka"`)
}

func TestMetrics_OpenMetricsNegotiation(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradeshield_test_events_total",
		Help: "Events seen by the test",
	})
	registry.MustRegister(counter)
	counter.Inc()

	w := scrape(registry, "application/openmetrics-text; version=1.0.0")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/openmetrics-text")
	assert.Contains(t, w.Body.String(), "# EOF")
}

func TestMetrics_EmptyRegistry(t *testing.T) {
	w := scrape(prometheus.NewRegistry(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
