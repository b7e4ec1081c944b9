package prometheus

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/legal-services-api/pkg/metrics"
)

// Handler owns the metrics registry and the HTTP instrumentation built on it.
type Handler struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// New creates a registry holding the application metrics plus the Go runtime
// and process collectors.
func New(namespace string) *Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Handler{
		registry: registry,
		metrics:  metrics.NewMetrics(namespace, registry),
	}
}

// Metrics returns the registered application metrics.
func (h *Handler) Metrics() *metrics.Metrics {
	return h.metrics
}

// Middleware records request duration and counts per route.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		h.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		h.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			h.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		}
	}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}
