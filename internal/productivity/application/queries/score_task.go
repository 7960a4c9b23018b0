package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// ScoreTaskQuery asks for the score of a single task.
type ScoreTaskQuery struct {
	UserID      uuid.UUID
	Task        task.Task
	UserContext *task.UserContext

	// Now pins the evaluation instant; the engine clock is used when nil.
	Now *time.Time

	// MLAdjustment overrides the adjustment source when set.
	MLAdjustment *float64
}

// ExplainTaskQuery asks for the factor breakdown of a single task.
type ExplainTaskQuery = ScoreTaskQuery

type singleTask struct {
	engine  *services.PriorityEngine
	signals signals
}

func (s singleTask) resolve(ctx context.Context, q ScoreTaskQuery) (time.Time, task.UserContext, float64) {
	now := s.engine.Now()
	if q.Now != nil {
		now = *q.Now
	}

	ctx = observability.WithUserID(ctx, q.UserID)
	uc := s.signals.userContext(ctx, q.UserID, q.UserContext)

	ml := 0.0
	if q.MLAdjustment != nil {
		ml = *q.MLAdjustment
	} else if adjust := s.signals.adjustmentFunc(ctx, q.UserID, []task.Task{q.Task}); adjust != nil {
		ml = adjust(q.Task)
	}
	return now, uc, ml
}

// ScoreTaskHandler scores one task.
type ScoreTaskHandler struct {
	singleTask
}

// NewScoreTaskHandler creates a new handler. Only the Contexts and
// Adjustments dependencies are used.
func NewScoreTaskHandler(engine *services.PriorityEngine, deps Dependencies) *ScoreTaskHandler {
	if engine == nil {
		engine = services.NewDefaultPriorityEngine()
	}
	return &ScoreTaskHandler{singleTask{engine: engine, signals: deps.withDefaults().signals()}}
}

// Handle executes the query.
func (h *ScoreTaskHandler) Handle(ctx context.Context, q ScoreTaskQuery) (*services.ScoreResult, error) {
	now, uc, ml := h.resolve(ctx, q)
	result := h.engine.Score(q.Task, now, uc, ml)
	return &result, nil
}

// ExplainTaskHandler explains one task's score factor by factor.
type ExplainTaskHandler struct {
	singleTask
}

// NewExplainTaskHandler creates a new handler.
func NewExplainTaskHandler(engine *services.PriorityEngine, deps Dependencies) *ExplainTaskHandler {
	if engine == nil {
		engine = services.NewDefaultPriorityEngine()
	}
	return &ExplainTaskHandler{singleTask{engine: engine, signals: deps.withDefaults().signals()}}
}

// Handle executes the query.
func (h *ExplainTaskHandler) Handle(ctx context.Context, q ExplainTaskQuery) (*services.FactorExplanation, error) {
	now, uc, ml := h.resolve(ctx, q)
	explanation := h.engine.Explain(q.Task, now, uc, ml)
	return &explanation, nil
}
