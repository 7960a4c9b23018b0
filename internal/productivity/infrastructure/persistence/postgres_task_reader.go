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

const postgresFindPending = `SELECT id::text, ` + taskFields + `
FROM tasks
WHERE user_id = $1 AND status IN ('pending', 'in_progress')
ORDER BY created_at, id`

// PostgresTaskReader implements task.Reader against a shared PostgreSQL task store.
type PostgresTaskReader struct {
	exec    database.Executor
	metrics observability.Metrics
}

// NewPostgresTaskReader creates a new PostgreSQL task reader.
func NewPostgresTaskReader(exec database.Executor, metrics observability.Metrics) *PostgresTaskReader {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &PostgresTaskReader{exec: exec, metrics: metrics}
}

// FindPending returns the user's open tasks, oldest first.
func (r *PostgresTaskReader) FindPending(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	start := time.Now()
	driver := observability.T("driver", "postgres")
	defer func() {
		r.metrics.Counter(observability.MetricDBQueries, 1, driver)
		r.metrics.Timing(observability.MetricDBQueryDuration, time.Since(start), driver)
	}()

	rows, err := r.exec.Query(ctx, postgresFindPending, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query pending tasks: %w", err)
	}
	return collectTasks(rows)
}

// NewTaskReader picks the reader matching the connection's driver.
func NewTaskReader(conn database.Connection, metrics observability.Metrics) (task.Reader, error) {
	switch conn.Driver() {
	case database.DriverSQLite:
		return NewSQLiteTaskReader(conn, metrics), nil
	case database.DriverPostgres:
		return NewPostgresTaskReader(conn, metrics), nil
	default:
		return nil, fmt.Errorf("no task reader for driver %s", conn.Driver())
	}
}

var _ task.Reader = (*PostgresTaskReader)(nil)
