package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client within a fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	hits    map[string]int
	resetAt time.Time
	rate    int           // requests per window
	window  time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:    make(map[string]int),
		resetAt: time.Now().Add(window),
		rate:    rate,
		window:  window,
	}
}

// Allow records one hit for the client and reports whether it is still
// within the limit.
func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Now().After(l.resetAt) {
		l.hits = make(map[string]int)
		l.resetAt = time.Now().Add(l.window)
	}

	if l.hits[client] >= l.rate {
		return false
	}
	l.hits[client]++
	return true
}

// RateLimit middleware limits requests per IP
func RateLimit(rate int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(rate, window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiter.Allow(clientIP) {
			slog.Warn("rate limit exceeded",
				"client_ip", clientIP,
				"request_id", GetRequestID(c),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
