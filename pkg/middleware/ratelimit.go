package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client. Idle buckets expire
// with the cache entry.
type RateLimiter struct {
	clients *cache.Cache
	rps     rate.Limit
	burst   int
	logger  *zap.Logger
}

func NewRateLimiter(logger *zap.Logger, rps float64, burst int, idle time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: cache.New(idle, idle*2),
		rps:     rate.Limit(rps),
		burst:   burst,
		logger:  logger,
	}
}

func (rl *RateLimiter) limiter(clientID string) *rate.Limiter {
	if v, ok := rl.clients.Get(clientID); ok {
		rl.clients.SetDefault(clientID, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.rps, rl.burst)
	// Add fails if a concurrent request won the race; use its limiter.
	if err := rl.clients.Add(clientID, l, cache.DefaultExpiration); err != nil {
		if v, ok := rl.clients.Get(clientID); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// Allow reports whether clientID may make another request now.
func (rl *RateLimiter) Allow(clientID string) bool {
	return rl.limiter(clientID).Allow()
}

func getClientKey(c *gin.Context) string {
	if id := GetClientID(c); id != uuid.Nil {
		return id.String()
	}
	return c.ClientIP()
}

// RateLimitMiddleware rejects clients that exceed their bucket with 429.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := getClientKey(c)
		if !rl.Allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("client_id", key),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
