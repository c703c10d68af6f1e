package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"vaultguard/config"
	"vaultguard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of IP addresses to their in-memory limiters,
// used when the Redis counter is unavailable.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, perMin int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// allowRedis counts the request in a fixed one-minute Redis window. The bool
// result is only meaningful when ok is true; otherwise the caller should fall
// back to the in-memory limiter.
func allowRedis(ctx context.Context, ip string, perMin int) (allowed bool, ok bool) {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return false, false
	}

	key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/60)
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, false
	}
	if count == 1 {
		_ = client.Expire(ctx, key, time.Minute).Err()
	}
	return count <= int64(perMin), true
}

// RateLimitMiddleware limits requests per IP address. Counters live in Redis
// so the limit holds across replicas; without Redis it degrades to a
// per-process token bucket.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		ip := getClientIP(c)
		perMin := config.AppConfig.MaxRequestsPerMin
		if perMin <= 0 {
			perMin = 100
		}

		allowed, ok := allowRedis(c.Request.Context(), ip, perMin)
		if !ok {
			allowed = limiterStore.getLimiter(ip, perMin).Allow()
		}
		if !allowed {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
