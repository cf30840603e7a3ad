package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/service"
)

type backendStatus interface {
	Configured() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	backend backendStatus
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, backend backendStatus) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, backend: backend}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the backend is configured. The portal still serves pages
// without one, so the status code stays 200.
func (h *MetricsHandler) Ready(c *gin.Context) {
	configured := h.backend != nil && h.backend.Configured()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend_configured": configured})
}
