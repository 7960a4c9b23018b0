package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/database"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

const sqliteFindPending = `SELECT id, ` + taskFields + `
FROM tasks
WHERE user_id = ? AND status IN ('pending', 'in_progress')
ORDER BY created_at, id`

// SQLiteTaskReader implements task.Reader against the local SQLite store.
type SQLiteTaskReader struct {
	exec    database.Executor
	metrics observability.Metrics
}

// NewSQLiteTaskReader creates a new SQLite task reader.
func NewSQLiteTaskReader(exec database.Executor, metrics observability.Metrics) *SQLiteTaskReader {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &SQLiteTaskReader{exec: exec, metrics: metrics}
}

// FindPending returns the user's open tasks, oldest first.
func (r *SQLiteTaskReader) FindPending(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	start := time.Now()
	driver := observability.T("driver", "sqlite")
	defer func() {
		r.metrics.Counter(observability.MetricDBQueries, 1, driver)
		r.metrics.Timing(observability.MetricDBQueryDuration, time.Since(start), driver)
	}()

	rows, err := r.exec.Query(ctx, sqliteFindPending, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query pending tasks: %w", err)
	}
	return collectTasks(rows)
}

var _ task.Reader = (*SQLiteTaskReader)(nil)
