package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps server-side session records so tokens can be revoked
// before they expire.
type SessionStore interface {
	Save(ctx context.Context, id uuid.UUID, subject string, ttl time.Duration) error
	// Subject returns ErrSessionNotFound for unknown or expired sessions.
	Subject(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// redisKeySession returns the Redis key for a session.
func redisKeySession(id uuid.UUID) string { return "session:" + id.String() }

type redisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) SessionStore {
	return &redisSessionStore{rdb: rdb}
}

func (s *redisSessionStore) Save(ctx context.Context, id uuid.UUID, subject string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKeySession(id), subject, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Subject(ctx context.Context, id uuid.UUID) (string, error) {
	v, err := s.rdb.Get(ctx, redisKeySession(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return v, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rdb.Del(ctx, redisKeySession(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
