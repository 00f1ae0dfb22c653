package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IHandler interface {
	Metrics(c *gin.Context)
}

type handler struct {
	exporter http.Handler
}

// New exposes everything registered on registry in the Prometheus text or
// OpenMetrics format, depending on what the scraper accepts.
func New(registry *prometheus.Registry) IHandler {
	return &handler{
		exporter: promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			Registry:          registry,
			EnableOpenMetrics: true,
		}),
	}
}

// Metrics godoc
// @Summary Prometheus metrics
// @Tags metrics
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *handler) Metrics(c *gin.Context) {
	h.exporter.ServeHTTP(c.Writer, c.Request)
}
