package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/shared/domain"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/eventbus"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// ErrNoTaskSource is returned when a query carries no tasks and no task store is configured.
var ErrNoTaskSource = errors.New("no tasks supplied and no task store configured")

// PrioritizeTasksQuery asks for a ranked task list.
type PrioritizeTasksQuery struct {
	UserID uuid.UUID

	// Tasks are ranked as given. When nil, pending tasks are loaded from the store.
	Tasks []task.Task

	// UserContext overrides the stored context when set.
	UserContext *task.UserContext

	// Limit caps the returned list after ranking (0 = all).
	Limit int
}

// PrioritizeTasksResult is the ranked list plus aggregate figures over every task.
type PrioritizeTasksResult struct {
	Tasks    []services.RankedTask `json:"tasks"`
	Summary  services.Summary      `json:"summary"`
	ScoredAt time.Time             `json:"scoredAt"`
}

// Dependencies are the optional collaborators of the query handlers.
// Nil fields disable the corresponding feature.
type Dependencies struct {
	Tasks       task.Reader
	Contexts    task.UserContextRepository
	Adjustments task.AdjustmentSource
	Publisher   eventbus.Publisher
	Metrics     observability.Metrics
	Logger      *slog.Logger
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NoopMetrics{}
	}
	return d
}

func (d Dependencies) signals() signals {
	return signals{
		contexts:    d.Contexts,
		adjustments: d.Adjustments,
		metrics:     d.Metrics,
		logger:      d.Logger,
	}
}

// PrioritizeTasksHandler ranks a user's tasks.
type PrioritizeTasksHandler struct {
	engine    *services.PriorityEngine
	tasks     task.Reader
	signals   signals
	publisher eventbus.Publisher
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewPrioritizeTasksHandler creates a new handler.
func NewPrioritizeTasksHandler(engine *services.PriorityEngine, deps Dependencies) *PrioritizeTasksHandler {
	if engine == nil {
		engine = services.NewDefaultPriorityEngine()
	}
	deps = deps.withDefaults()

	return &PrioritizeTasksHandler{
		engine:    engine,
		tasks:     deps.Tasks,
		signals:   deps.signals(),
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Handle executes the query.
func (h *PrioritizeTasksHandler) Handle(ctx context.Context, query PrioritizeTasksQuery) (*PrioritizeTasksResult, error) {
	ctx = observability.WithUserID(ctx, query.UserID)
	timer := observability.StartTimer("prioritize_tasks").WithMetrics(h.metrics)
	h.metrics.Counter(observability.MetricPrioritizeRequests, 1)

	tasks, err := h.loadTasks(ctx, query)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	uc := h.signals.userContext(ctx, query.UserID, query.UserContext)
	adjust := h.signals.adjustmentFunc(ctx, query.UserID, tasks)

	now := h.engine.Now()
	ranked := h.engine.PrioritizeTasksAt(now, tasks, uc, adjust)
	summary := services.Summarize(ranked)

	if query.Limit > 0 && query.Limit < len(ranked) {
		ranked = ranked[:query.Limit]
	}

	h.record(summary, ranked)
	h.publish(ctx, query.UserID, summary, now)
	timer.Stop()

	return &PrioritizeTasksResult{
		Tasks:    ranked,
		Summary:  summary,
		ScoredAt: now,
	}, nil
}

func (h *PrioritizeTasksHandler) loadTasks(ctx context.Context, query PrioritizeTasksQuery) ([]task.Task, error) {
	if query.Tasks != nil {
		return query.Tasks, nil
	}
	if h.tasks == nil {
		return nil, ErrNoTaskSource
	}

	tasks, err := h.tasks.FindPending(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending tasks: %w", err)
	}
	return tasks, nil
}

func (h *PrioritizeTasksHandler) record(summary services.Summary, ranked []services.RankedTask) {
	h.metrics.Counter(observability.MetricPrioritizeTasks, int64(summary.TaskCount))
	h.metrics.Counter(observability.MetricPrioritizeUrgent, int64(summary.UrgentCount))
	h.metrics.Counter(observability.MetricPrioritizeOverdue, int64(summary.OverdueCount))
	for _, r := range ranked {
		h.metrics.Histogram(observability.MetricPrioritizeScore, r.AIScore)
	}
}

// publish emits a TasksPrioritized event. Failures are logged and never
// surface to the caller.
func (h *PrioritizeTasksHandler) publish(ctx context.Context, userID uuid.UUID, summary services.Summary, scoredAt time.Time) {
	if h.publisher == nil || summary.TaskCount == 0 {
		return
	}

	event := task.NewTasksPrioritized(userID, scoredAt)
	event.TaskCount = summary.TaskCount
	event.TopTaskID = summary.TopTaskID
	event.TopTaskTitle = summary.TopTaskTitle
	event.TopScore = summary.TopScore
	event.AverageScore = summary.AverageScore
	event.UrgentCount = summary.UrgentCount
	event.OverdueCount = summary.OverdueCount

	event.SetMetadata(domain.NewMetadata(userID, observability.CorrelationIDFromContext(ctx)))

	if err := eventbus.PublishEvent(ctx, h.publisher, &event); err != nil {
		h.metrics.Counter(observability.MetricEventsFailed, 1)
		h.logger.Warn("failed to publish ranking event",
			"user_id", userID,
			"error", err,
		)
		return
	}
	h.metrics.Counter(observability.MetricEventsPublished, 1)
}
