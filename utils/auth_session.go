// File: salonify/utils/auth_session.go
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when no live session exists for a token.
var ErrSessionNotFound = errors.New("auth session not found")

// AuthSession is the server-side snapshot of a signed-in user, keyed by token hash.
type AuthSession struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore persists auth sessions.
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, session AuthSession, ttl time.Duration) error
	Get(ctx context.Context, tokenHash string) (*AuthSession, error)
	Delete(ctx context.Context, tokenHash string) error
}

// RedisSessionStore keeps sessions in the auth Redis DB.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Save stores the session with a TTL.
func (s *RedisSessionStore) Save(ctx context.Context, tokenHash string, session AuthSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := s.client.Set(ctx, AuthSessionPrefix+tokenHash, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// Get retrieves the session; a missing key is ErrSessionNotFound.
func (s *RedisSessionStore) Get(ctx context.Context, tokenHash string) (*AuthSession, error) {
	data, err := s.client.Get(ctx, AuthSessionPrefix+tokenHash).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth session: %w", err)
	}
	var session AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	return s.client.Del(ctx, AuthSessionPrefix+tokenHash).Err()
}
