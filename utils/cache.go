package utils

import (
	"context"
	"log"
	"time"

	"vaultguard/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for rate-limit counters.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client used for per-IP request counters.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AuthCacheClient.Ping(ctx).Result(); err != nil {
		// The limiter degrades to its in-memory fallback without Redis.
		log.Printf("WARNING: failed to connect to Redis (auth cache): %v", err)
		AuthCacheClient = nil
	}
}

// GetAuthCacheClient returns the Redis client for rate-limit counters, or nil
// when Redis is unavailable.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}
