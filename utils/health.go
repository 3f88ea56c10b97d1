package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered the last probe.
func (h HealthStatus) Healthy() bool {
	if !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func probe(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var redisHealth []bool
	for _, client := range redisClients {
		err := client.Ping(pctx).Err()
		redisHealth = append(redisHealth, err == nil)
	}

	mongoHealthy := mongoClient.Ping(pctx, nil) == nil

	mu.Lock()
	currentHealth = HealthStatus{
		Mongo:     mongoHealthy,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks and updates in-memory state until ctx is done.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	probe(ctx, redisClients, mongoClient)
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe(ctx, redisClients, mongoClient)
			}
		}
	}()
}
