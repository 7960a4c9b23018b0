package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserContextNotFound = errors.New("user context not found")
)

// Reader loads tasks from the task store. The priority engine never writes back.
type Reader interface {
	FindPending(ctx context.Context, userID uuid.UUID) ([]Task, error)
}

// UserContextRepository stores the latest behavioural context per user.
type UserContextRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (UserContext, error)
	Save(ctx context.Context, userID uuid.UUID, uc UserContext) error
}

// AdjustmentSource supplies per-task ML score adjustments computed outside
// this service. Tasks without an entry get no adjustment.
type AdjustmentSource interface {
	Adjustments(ctx context.Context, userID uuid.UUID, taskIDs []string) (map[string]float64, error)
}
