package services

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// UrgencyLevel buckets the urgency component for display.
type UrgencyLevel string

const (
	UrgencyNone     UrgencyLevel = "none"
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// ClassifyUrgency maps an urgency score to a level. Overdue tasks are always critical.
func ClassifyUrgency(urgency float64, overdue bool) UrgencyLevel {
	switch {
	case overdue || urgency >= 0.9:
		return UrgencyCritical
	case urgency >= 0.7:
		return UrgencyHigh
	case urgency >= 0.4:
		return UrgencyMedium
	case urgency > 0:
		return UrgencyLow
	default:
		return UrgencyNone
	}
}

// Insights are the derived flags attached to every scored task.
type Insights struct {
	PriorityReason     string       `json:"priorityReason"`
	TimeRecommendation string       `json:"timeRecommendation"`
	IsUrgent           bool         `json:"isUrgent"`
	IsOverdue          bool         `json:"isOverdue"`
	IsOptimizedForTime bool         `json:"isOptimizedForTime"`
	RequiresFocus      bool         `json:"requiresFocus"`
	UrgencyLevel       UrgencyLevel `json:"urgencyLevel"`
}

// RankedTask is a task annotated with its score. The embedded Task is a
// shallow copy of the input.
type RankedTask struct {
	task.Task
	AIScore          float64     `json:"aiScore"`
	AIScoreBreakdown ScoreResult `json:"aiScoreBreakdown"`
	AIRank           int         `json:"aiRank"`
	AIPriority       int         `json:"aiPriority"`
	AIInsights       Insights    `json:"aiInsights"`
}

// UnmarshalJSON decodes the task fields with the lenient task decoder and the
// ai* fields as plain JSON.
func (r *RankedTask) UnmarshalJSON(data []byte) error {
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}

	var scored struct {
		AIScore          float64     `json:"aiScore"`
		AIScoreBreakdown ScoreResult `json:"aiScoreBreakdown"`
		AIRank           int         `json:"aiRank"`
		AIPriority       int         `json:"aiPriority"`
		AIInsights       Insights    `json:"aiInsights"`
	}
	if err := json.Unmarshal(data, &scored); err != nil {
		return err
	}

	*r = RankedTask{
		Task:             t,
		AIScore:          scored.AIScore,
		AIScoreBreakdown: scored.AIScoreBreakdown,
		AIRank:           scored.AIRank,
		AIPriority:       scored.AIPriority,
		AIInsights:       scored.AIInsights,
	}
	return nil
}

// AdjustmentFunc returns the ML adjustment for a task. A nil func means zero.
type AdjustmentFunc func(t task.Task) float64

// ScoreTasks scores every task against a single clock reading, preserving input order.
func (e *PriorityEngine) ScoreTasks(tasks []task.Task, uc task.UserContext) []RankedTask {
	return e.ScoreTasksAt(e.clock(), tasks, uc, nil)
}

// PrioritizeTasks scores and ranks tasks, highest score first.
func (e *PriorityEngine) PrioritizeTasks(tasks []task.Task, uc task.UserContext) []RankedTask {
	return e.PrioritizeTasksAt(e.clock(), tasks, uc, nil)
}

// ScoreTasksAt is ScoreTasks with an explicit instant and optional ML adjustments.
func (e *PriorityEngine) ScoreTasksAt(now time.Time, tasks []task.Task, uc task.UserContext, adjust AdjustmentFunc) []RankedTask {
	ranked := make([]RankedTask, 0, len(tasks))
	for _, t := range tasks {
		ml := 0.0
		if adjust != nil {
			ml = adjust(t)
		}

		result := e.Score(t, now, uc, ml)
		ranked = append(ranked, RankedTask{
			Task:             t,
			AIScore:          result.FinalScore,
			AIScoreBreakdown: result,
			AIInsights:       insightsFor(t, now, result),
		})
	}
	return ranked
}

// PrioritizeTasksAt is PrioritizeTasks with an explicit instant and optional ML adjustments.
func (e *PriorityEngine) PrioritizeTasksAt(now time.Time, tasks []task.Task, uc task.UserContext, adjust AdjustmentFunc) []RankedTask {
	ranked := e.ScoreTasksAt(now, tasks, uc, adjust)
	Rank(ranked)

	if len(ranked) > 0 {
		e.logger.Debug("tasks prioritized",
			"count", len(ranked),
			"top_score", ranked[0].AIScore,
		)
	}
	return ranked
}

// Rank sorts scored tasks by descending score and assigns rank and priority.
// Equal scores keep their relative order.
func Rank(ranked []RankedTask) {
	slices.SortStableFunc(ranked, func(a, b RankedTask) int {
		return cmp.Compare(b.AIScore, a.AIScore)
	})

	n := float64(len(ranked))
	for i := range ranked {
		ranked[i].AIRank = i + 1
		ranked[i].AIPriority = int(math.Round((1 - float64(i)/n) * 100))
	}
}

func insightsFor(t task.Task, now time.Time, result ScoreResult) Insights {
	c := result.Components
	overdue := t.IsOverdue(now)

	return Insights{
		PriorityReason:     result.Explanation.PrimaryReason,
		TimeRecommendation: result.Explanation.Recommendation,
		IsUrgent:           c.Urgency > 0.7,
		IsOverdue:          overdue,
		IsOptimizedForTime: c.Timing > 0.7,
		RequiresFocus:      c.Effort < 0.3 || c.Importance > 0.8,
		UrgencyLevel:       ClassifyUrgency(c.Urgency, overdue),
	}
}
