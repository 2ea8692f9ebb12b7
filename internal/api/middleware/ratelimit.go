package middleware

import (
	"net/http"
	"sync"

	"github.com/cadenza-labs/cadenza-api/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit throttles requests per client IP with a token bucket.
// Render requests are expensive (synthesis plus transcode), so the
// generation route gets a small bucket.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiterFor(ip).Allow() {
			logger.Warn("Rate limit exceeded", logger.Fields{
				"request_id": c.GetString("request_id"),
				"client_ip":  ip,
				"path":       c.Request.URL.Path,
			})
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests, slow down",
				"request_id": c.GetString("request_id"),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
