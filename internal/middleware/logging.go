package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/metrics"
)

// StructuredLogger logs every request with structured fields and records the
// request counter and duration metrics.
func StructuredLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		metrics.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(statusCode)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(latency.Seconds())

		entry := logger.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"method":     c.Request.Method,
			"path":       path,
			"status":     statusCode,
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})

		switch {
		case statusCode >= 500:
			entry.Error("Request failed with server error")
		case statusCode >= 400:
			entry.Warn("Request failed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}
