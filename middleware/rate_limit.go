package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 300 requests per minute per client, matching the bucket capacity of
// the upstream deployment.
const (
	rateLimitPerSecond = 300.0 / 60.0
	rateLimitBurst     = 300
)

type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newClientLimiters() *clientLimiters {
	return &clientLimiters{limiters: make(map[string]*rate.Limiter)}
}

func (cl *clientLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rateLimitPerSecond), rateLimitBurst)
		cl.limiters[key] = limiter
	}
	return limiter
}

func RateLimitMiddleware() gin.HandlerFunc {
	clients := newClientLimiters()

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
