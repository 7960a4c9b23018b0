package usercontext

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("7f1c2a3e-0000-4000-8000-000000000001")

	assert.Equal(t, "tasktuner:user:7f1c2a3e-0000-4000-8000-000000000001:context", Key(id))
}

func TestRedisStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	store := NewRedisStore(client, DefaultTTL)

	_, err := store.Get(context.Background(), uuid.New())

	require.Error(t, err)
	assert.NotErrorIs(t, err, task.ErrUserContextNotFound)
}

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	userID := uuid.New()
	defer client.Del(ctx, Key(userID))

	_, err = store.Get(ctx, userID)
	assert.ErrorIs(t, err, task.ErrUserContextNotFound)

	ratio := 0.6
	uc := task.UserContext{RecentPositiveSignalRatio: &ratio, Device: "mobile", EnergyLevel: value_objects.EnergyLow}
	require.NoError(t, store.Save(ctx, userID, uc))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, uc, got)

	ttl, err := client.TTL(ctx, Key(userID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.Set(ctx, Key(userID), "not json", 0).Err())
	_, err = store.Get(ctx, userID)
	assert.ErrorContains(t, err, "decode user context")
}
