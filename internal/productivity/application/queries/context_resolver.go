package queries

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// signals resolves the per-user inputs shared by every query: the user
// context and the ML adjustments. Both collaborators are optional and every
// failure degrades to defaults.
type signals struct {
	contexts    task.UserContextRepository
	adjustments task.AdjustmentSource
	metrics     observability.Metrics
	logger      *slog.Logger
}

func (s signals) userContext(ctx context.Context, userID uuid.UUID, explicit *task.UserContext) task.UserContext {
	if explicit != nil {
		return *explicit
	}
	if s.contexts == nil || userID == uuid.Nil {
		return task.UserContext{}
	}

	uc, err := s.contexts.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, task.ErrUserContextNotFound) {
			s.logger.Warn("user context unavailable, using defaults",
				"user_id", userID,
				"error", err,
			)
			s.metrics.Counter(observability.MetricContextFallbacks, 1)
		}
		return task.UserContext{}
	}
	return uc
}

// adjustmentFunc fetches adjustments for every task with an ID in one call.
// It returns nil when there is nothing to adjust.
func (s signals) adjustmentFunc(ctx context.Context, userID uuid.UUID, tasks []task.Task) services.AdjustmentFunc {
	if s.adjustments == nil {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := s.adjustments.Adjustments(ctx, userID, ids)
	if err != nil {
		s.logger.Warn("ml adjustments unavailable, scoring without them",
			"user_id", userID,
			"task_count", len(ids),
			"error", err,
		)
		s.metrics.Counter(observability.MetricAdjustmentFallbacks, 1)
		return nil
	}
	if len(byID) == 0 {
		return nil
	}

	return func(t task.Task) float64 {
		return byID[t.ID]
	}
}
