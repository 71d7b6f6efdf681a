package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-intel-server/internal/metrics"
)

// MetricsKey builds the aggregator key for a request: "METHOD:path" with the
// query string stripped. The route template is preferred over the raw URL so
// parameterized routes share one entry.
func MetricsKey(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + ":" + path
}

// RequestMetricsMiddleware feeds the JSON metrics aggregator. A response is
// a success when its status is below 400. A cache hit is inferred from the
// presence of a cache-related response header; the aggregator itself only
// receives the boolean.
func RequestMetricsMiddleware(agg *metrics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		key := MetricsKey(c)
		elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0
		agg.RecordRequest(key, c.Writer.Status() < http.StatusBadRequest, elapsedMs)

		header := c.Writer.Header()
		cacheHit := header.Get("Cache-Control") != "" ||
			header.Get("ETag") != "" ||
			header.Get("Age") != ""
		agg.RecordCache(key, cacheHit)
	}
}

// ZapLoggingMiddleware logs every request with zap, skipping the health and
// Prometheus exposition endpoints.
func ZapLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if path == "/health" || path == "/metrics" || path == "/api/v1/health" {
			c.Next()
			return
		}

		c.Next()

		latency := time.Since(start)
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = path + "?" + rawQuery
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		requestID := c.Writer.Header().Get("X-Request-ID")
		if requestID == "" {
			requestID = c.GetHeader("X-Request-ID")
		}
		if requestID == "" {
			requestID = uuid.NewString()
			c.Header("X-Request-ID", requestID)
		}
		fields = append(fields, zap.String("request_id", requestID))

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors.ByType(gin.ErrorTypeAny) {
				log.Error("Request error", append(fields, zap.Error(ginErr.Err))...)
			}
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
