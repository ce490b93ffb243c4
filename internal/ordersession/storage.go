package ordersession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgredis "github.com/ordena-app/ordena-backend/pkg/redis"
)

// Storage persists the session triple durably. Implementations must make
// Save atomic: a concurrent Load returns either the prior or the new
// value, never a blend.
type Storage interface {
	Load(ctx context.Context, userID uuid.UUID) (Session, bool, error)
	Save(ctx context.Context, userID uuid.UUID, session Session) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type sessionKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OrderSessionKey(userID string) string
}

// RedisStorage keeps one JSON document per user in Redis.
type RedisStorage struct {
	kv  sessionKV
	ttl time.Duration
}

// NewRedisStorage builds the Redis-backed storage. A zero TTL keeps
// sessions until explicitly cleared.
func NewRedisStorage(kv sessionKV, ttl time.Duration) (*RedisStorage, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{kv: kv, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, userID uuid.UUID) (Session, bool, error) {
	raw, err := s.kv.Get(ctx, s.kv.OrderSessionKey(userID.String()))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("loading order session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, false, fmt.Errorf("decoding order session: %w", err)
	}
	return session, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, userID uuid.UUID, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding order session: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.OrderSessionKey(userID.String()), payload, s.ttl); err != nil {
		return fmt.Errorf("saving order session: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.kv.Del(ctx, s.kv.OrderSessionKey(userID.String())); err != nil {
		return fmt.Errorf("deleting order session: %w", err)
	}
	return nil
}
