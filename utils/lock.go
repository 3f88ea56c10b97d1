package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker hands out short-lived distributed locks.
type Locker interface {
	// Acquire returns a release func when the lock was taken, or ok=false when held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// RedisLocker implements Locker with SET NX and a token-checked delete.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, LockPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// Released with a fresh context so a cancelled request still frees the lock.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{LockPrefix + key}, token).Err()
	}
	return release, true, nil
}
