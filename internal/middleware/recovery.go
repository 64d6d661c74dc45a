package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
)

// Recovery converts panics into the standard error envelope. The stack trace
// goes to the log, never to the client.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithFields(logrus.Fields{
					"request_id": GetRequestID(c),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      err,
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Success:   false,
					Error:     "An unexpected error occurred",
					Timestamp: time.Now().UTC(),
				})
			}
		}()

		c.Next()
	}
}
