package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
)

// RateLimiter enforces a fixed-window per-client request limit.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	logger  *logrus.Logger
	limit   int
	window  time.Duration
}

type clientWindow struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration, logger *logrus.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		logger:  logger,
		limit:   limit,
		window:  window,
	}

	go rl.cleanup()

	return rl
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !rl.allow(clientIP) {
			rl.logger.WithFields(logrus.Fields{
				"client_ip":  clientIP,
				"request_id": GetRequestID(c),
				"path":       c.Request.URL.Path,
			}).Warn("Rate limit exceeded")

			appErr := models.NewRateLimitError("Rate limit exceeded, try again later")
			c.AbortWithStatusJSON(appErr.StatusCode, models.ErrorResponse{
				Success:   false,
				Error:     appErr.Message,
				Timestamp: time.Now().UTC(),
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists || now.After(client.windowEnd) {
		rl.clients[clientIP] = &clientWindow{count: 1, windowEnd: now.Add(rl.window)}
		return true
	}

	if client.count >= rl.limit {
		return false
	}

	client.count++
	return true
}

// cleanup drops expired client windows so the map does not grow unbounded.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if now.After(client.windowEnd) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}
