package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// getMetrics handles GET /metrics: the combined JSON view.
func (h *Handler) getMetrics(c *gin.Context) {
	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"startTs":   h.startTime,
		"uptimeMs":  now.Sub(h.startTime).Milliseconds(),
		"global":    h.aggregator.CalculateGlobalMetrics(),
		"endpoints": h.aggregator.CalculateEndpointsMetrics(),
	})
}

// getGlobalMetrics handles GET /metrics/global.
func (h *Handler) getGlobalMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.CalculateGlobalMetrics())
}

// getEndpointMetrics handles GET /metrics/endpoint/*endpoint. The key
// contains a slash ("METHOD:/path"), so the route uses a wildcard segment.
// A key that has never been recorded is 404, distinct from a recorded key
// with zero counters.
func (h *Handler) getEndpointMetrics(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("endpoint"), "/")
	if key == "" {
		h.abortWith(c, http.StatusBadRequest, "endpoint key is required")
		return
	}

	snapshot, ok := h.aggregator.CalculateEndpointMetrics(key)
	if !ok {
		h.abortWith(c, http.StatusNotFound, "unknown endpoint: "+key)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// getEndpointsMetrics handles GET /metrics/endpoints.
func (h *Handler) getEndpointsMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.CalculateEndpointsMetrics())
}
