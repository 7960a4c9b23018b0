// Package adjustment provides the sources of per-task ML score adjustments.
// Adjustments are produced by an external model job; this service only reads them.
package adjustment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// RedisSource reads adjustments from a per-user hash mapping task ID to a
// decimal adjustment, stored under tasktuner:user:{user_id}:adjustments.
type RedisSource struct {
	client redis.Cmdable
}

// NewRedisSource creates a new Redis-backed adjustment source.
func NewRedisSource(client redis.Cmdable) *RedisSource {
	return &RedisSource{client: client}
}

// Key returns the hash holding a user's adjustments.
func Key(userID uuid.UUID) string {
	return fmt.Sprintf("tasktuner:user:%s:adjustments", userID)
}

// Adjustments returns the entries present for taskIDs. Missing fields and
// values that do not parse to a finite number are left out.
func (s *RedisSource) Adjustments(ctx context.Context, userID uuid.UUID, taskIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	values, err := s.client.HMGet(ctx, Key(userID), taskIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("read adjustments: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out[taskIDs[i]] = f
	}
	return out, nil
}

var _ task.AdjustmentSource = (*RedisSource)(nil)
