package persistence

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/database"
)

// Columns after id read by both readers, in scan order.
const taskFields = `title, description, category, priority, importance, due_date, due_type,
	start_time, estimate_minutes, effort_complexity, times_postponed, completion_rate,
	required_device, preferred_location, created_at`

// nullTime scans TIMESTAMPTZ values from pgx and RFC 3339 text from SQLite.
// Unparseable text is treated as NULL.
type nullTime struct {
	Time *time.Time
}

func (n *nullTime) Scan(src any) error {
	n.Time = nil
	switch v := src.(type) {
	case nil:
	case time.Time:
		ts := v.UTC()
		n.Time = &ts
	case string:
		n.Time = task.ParseTimestamp(v)
	case []byte:
		n.Time = task.ParseTimestamp(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
	return nil
}

// nullFloat scans numeric columns. SQLite does not enforce column types, so
// text that does not parse as a number is treated as NULL, as are NaN and Inf.
type nullFloat struct {
	Float *float64
}

func (n *nullFloat) Scan(src any) error {
	n.Float = nil
	var f float64
	switch v := src.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, ok := parseNumber(v)
		if !ok {
			return nil
		}
		f = parsed
	case []byte:
		parsed, ok := parseNumber(string(v))
		if !ok {
			return nil
		}
		f = parsed
	default:
		return fmt.Errorf("cannot scan %T into number", src)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Float = &f
	return nil
}

// Int returns the value truncated toward zero and saturated at the int32 bounds.
func (n nullFloat) Int() *int {
	if n.Float == nil {
		return nil
	}
	var i int
	switch f := *n.Float; {
	case f >= math.MaxInt32:
		i = math.MaxInt32
	case f <= math.MinInt32:
		i = math.MinInt32
	default:
		i = int(f)
	}
	return &i
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

type taskRow struct {
	id                string
	title             string
	description       sql.NullString
	category          sql.NullString
	priority          sql.NullString
	importance        nullFloat
	dueDate           nullTime
	dueType           sql.NullString
	startTime         sql.NullString
	estimateMinutes   nullFloat
	effortComplexity  nullFloat
	timesPostponed    nullFloat
	completionRate    nullFloat
	requiredDevice    sql.NullString
	preferredLocation sql.NullString
	createdAt         nullTime
}

func (r *taskRow) scan(row database.Row) error {
	return row.Scan(
		&r.id, &r.title, &r.description, &r.category, &r.priority, &r.importance,
		&r.dueDate, &r.dueType, &r.startTime, &r.estimateMinutes, &r.effortComplexity,
		&r.timesPostponed, &r.completionRate, &r.requiredDevice, &r.preferredLocation,
		&r.createdAt,
	)
}

func (r *taskRow) toTask() task.Task {
	t := task.Task{
		ID:                r.id,
		Title:             r.title,
		Description:       r.description.String,
		DueDate:           r.dueDate.Time,
		DueType:           value_objects.ParseDueType(r.dueType.String),
		Category:          value_objects.ParseCategory(r.category.String),
		StartTime:         r.startTime.String,
		RequiredDevice:    r.requiredDevice.String,
		PreferredLocation: r.preferredLocation.String,
		CreatedAt:         r.createdAt.Time,
		Importance:        r.importance.Float,
		EstimateMinutes:   r.estimateMinutes.Float,
		EffortComplexity:  r.effortComplexity.Float,
		TimesPostponed:    r.timesPostponed.Int(),
		CompletionRate:    r.completionRate.Float,
	}
	if p, err := value_objects.ParsePriority(r.priority.String); err == nil {
		t.Priority = p
	}
	return t
}

func collectTasks(rows database.Rows) ([]task.Task, error) {
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		var r taskRow
		if err := r.scan(rows); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, r.toTask())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
