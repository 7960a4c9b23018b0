package usercontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// DefaultTTL bounds how long a context snapshot is trusted. Behavioural
// signals go stale quickly, so an expired context falls back to defaults.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps one JSON user context per user under
// tasktuner:user:{user_id}:context.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a store. A ttl of zero keeps entries forever.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Key returns the Redis key holding a user's context.
func Key(userID uuid.UUID) string {
	return fmt.Sprintf("tasktuner:user:%s:context", userID)
}

// Get returns task.ErrUserContextNotFound when no snapshot is stored.
func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) (task.UserContext, error) {
	data, err := s.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return task.UserContext{}, task.ErrUserContextNotFound
	}
	if err != nil {
		return task.UserContext{}, fmt.Errorf("get user context: %w", err)
	}

	var uc task.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return task.UserContext{}, fmt.Errorf("decode user context: %w", err)
	}
	return uc, nil
}

// Save replaces the user's snapshot.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, uc task.UserContext) error {
	data, err := json.Marshal(uc)
	if err != nil {
		return fmt.Errorf("encode user context: %w", err)
	}
	if err := s.client.Set(ctx, Key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save user context: %w", err)
	}
	return nil
}

var _ task.UserContextRepository = (*RedisStore)(nil)
