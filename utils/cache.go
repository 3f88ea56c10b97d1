// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"salonify/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client, also used for locks.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for auth sessions.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func mustPing(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitRedis connects both Redis clients and fails fast if either is unreachable.
func InitRedis() {
	GetCacheClient()
	GetAuthCacheClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
		mustPing(CacheClient, "Cache")
	}
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for auth sessions.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
		mustPing(AuthCacheClient, "Auth Cache")
	}
	return AuthCacheClient
}
