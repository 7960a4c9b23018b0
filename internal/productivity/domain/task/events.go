package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/shared/domain"
)

const (
	AggregateType = "TaskList"

	RoutingKeyPrioritized = "productivity.tasks.prioritized"
)

// TasksPrioritized is emitted after a user's task list has been ranked.
type TasksPrioritized struct {
	domain.BaseEvent
	TaskCount    int     `json:"task_count"`
	TopTaskID    string  `json:"top_task_id,omitempty"`
	TopTaskTitle string  `json:"top_task_title,omitempty"`
	TopScore     float64 `json:"top_score"`
	AverageScore float64 `json:"average_score"`
	UrgentCount  int     `json:"urgent_count"`
	OverdueCount int     `json:"overdue_count"`
}

// NewTasksPrioritized creates a TasksPrioritized event for the given user,
// stamped with the instant the list was scored.
func NewTasksPrioritized(userID uuid.UUID, scoredAt time.Time) TasksPrioritized {
	return TasksPrioritized{
		BaseEvent: domain.NewBaseEvent(userID, AggregateType, RoutingKeyPrioritized, scoredAt),
	}
}
