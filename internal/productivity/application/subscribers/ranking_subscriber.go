package subscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/eventbus"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

const (
	MetricLastTopScore     = "tasktuner.ranking.top_score"
	MetricLastAverageScore = "tasktuner.ranking.average_score"
)

// rankingPayload mirrors the exported fields of task.TasksPrioritized.
type rankingPayload struct {
	TaskCount    int     `json:"task_count"`
	TopTaskID    string  `json:"top_task_id"`
	TopTaskTitle string  `json:"top_task_title"`
	TopScore     float64 `json:"top_score"`
	AverageScore float64 `json:"average_score"`
	UrgentCount  int     `json:"urgent_count"`
	OverdueCount int     `json:"overdue_count"`
}

// RankingSubscriber turns ranking events into an audit log line and gauges.
// It runs on the local bus when no broker is configured.
type RankingSubscriber struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewRankingSubscriber creates a new subscriber.
func NewRankingSubscriber(metrics observability.Metrics, logger *slog.Logger) *RankingSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RankingSubscriber{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *RankingSubscriber) EventTypes() []string {
	return []string{task.RoutingKeyPrioritized}
}

// Handle processes an event.
func (s *RankingSubscriber) Handle(ctx context.Context, event *eventbus.Envelope) error {
	var payload rankingPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("decode ranking payload: %w", err)
	}

	userID := event.Metadata.UserID.String()
	s.metrics.Gauge(MetricLastTopScore, payload.TopScore, observability.T("user_id", userID))
	s.metrics.Gauge(MetricLastAverageScore, payload.AverageScore, observability.T("user_id", userID))

	s.logger.InfoContext(ctx, "tasks ranked",
		"event_id", event.EventID,
		"user_id", userID,
		"task_count", payload.TaskCount,
		"top_task", payload.TopTaskTitle,
		"top_score", payload.TopScore,
		"urgent", payload.UrgentCount,
		"overdue", payload.OverdueCount,
	)
	return nil
}
