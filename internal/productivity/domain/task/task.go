package task

import (
	"strings"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// Task is a read-only snapshot of a user task as handed to the priority engine.
// Optional numeric and time fields are pointers; nil means "not supplied" and
// lets the engine fall back to inference or defaults.
type Task struct {
	ID                string                 `json:"id,omitempty"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	DueDate           *time.Time             `json:"dueDate,omitempty"`
	DueType           value_objects.DueType  `json:"dueType,omitempty"`
	Importance        *float64               `json:"importance,omitempty"`
	Category          value_objects.Category `json:"category,omitempty"`
	Priority          value_objects.Priority `json:"priority,omitempty"`
	StartTime         string                 `json:"startTime,omitempty"`
	EstimateMinutes   *float64               `json:"estimateMinutes,omitempty"`
	EffortComplexity  *float64               `json:"effortComplexity,omitempty"`
	TimesPostponed    *int                   `json:"timesPostponed,omitempty"`
	CompletionRate    *float64               `json:"completionRate,omitempty"`
	CreatedAt         *time.Time             `json:"createdAt,omitempty"`
	RequiredDevice    string                 `json:"requiredDevice,omitempty"`
	PreferredLocation string                 `json:"preferredLocation,omitempty"`
}

// Text returns the lower-cased title and description joined by a space.
// Keyword heuristics run over this string.
func (t Task) Text() string {
	return strings.ToLower(t.Title + " " + t.Description)
}

// HasDeadline reports whether the task carries a due date.
func (t Task) HasDeadline() bool {
	return t.DueDate != nil
}

// IsOverdue reports whether the due date lies strictly before now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// HoursUntilDue returns the signed number of hours between now and the due date.
// The second value is false when the task has no deadline.
func (t Task) HoursUntilDue(now time.Time) (float64, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return t.DueDate.Sub(now).Hours(), true
}

// Age returns how long ago the task was created, or zero when unknown.
func (t Task) Age(now time.Time) time.Duration {
	if t.CreatedAt == nil {
		return 0
	}
	return now.Sub(*t.CreatedAt)
}

// PreferredStart parses StartTime. The second value is false when the field is
// empty or malformed.
func (t Task) PreferredStart() (value_objects.StartTime, bool) {
	if t.StartTime == "" {
		return value_objects.StartTime{}, false
	}
	st, err := value_objects.ParseStartTime(t.StartTime)
	if err != nil {
		return value_objects.StartTime{}, false
	}
	return st, true
}

// Postponements returns TimesPostponed with a zero default.
func (t Task) Postponements() int {
	if t.TimesPostponed == nil || *t.TimesPostponed < 0 {
		return 0
	}
	return *t.TimesPostponed
}

// DefaultCompletionRate is assumed when a task has no completion history.
const DefaultCompletionRate = 0.8

// CompletionRateOrDefault returns CompletionRate, or DefaultCompletionRate when unset.
func (t Task) CompletionRateOrDefault() float64 {
	if t.CompletionRate == nil {
		return DefaultCompletionRate
	}
	return *t.CompletionRate
}
