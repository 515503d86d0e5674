package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/observability"
)

// MetricsHandler exports runner and HTTP counters to operators.
type MetricsHandler struct {
	runner QueryRunner
	http   *observability.Metrics
}

// NewMetricsHandler constructs handler. httpMetrics may be nil.
func NewMetricsHandler(runner QueryRunner, httpMetrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{runner: runner, http: httpMetrics}
}

// Get handles GET /v1/metrics.
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	resp := dto.MetricsResponse{Snapshot: h.runner.GetMetrics()}
	if h.http != nil {
		resp.HTTP = h.http.Snapshot()
	}
	return c.JSON(fiber.Map{"data": resp})
}
