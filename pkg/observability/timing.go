package observability

import (
	"log/slog"
	"time"
)

// Timer measures one operation and reports it to Metrics and, optionally, a
// logger at debug level.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
}

// StartTimer starts timing operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now(), metrics: NoopMetrics{}}
}

func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	if metrics != nil {
		t.metrics = metrics
	}
	return t
}

// Stop records a successful run.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError records the run and counts it as failed when err is non-nil.
func (t *Timer) StopWithError(err error) time.Duration {
	elapsed := time.Since(t.start)
	tag := T("operation", t.operation)

	t.metrics.Timing(MetricOperationDuration, elapsed, tag)
	t.metrics.Counter(MetricOperationTotal, 1, tag)
	if err != nil {
		t.metrics.Counter(MetricOperationErrors, 1, tag)
	}

	if t.logger != nil {
		if err != nil {
			t.logger.Debug("operation failed", "operation", t.operation, "duration_ms", elapsed.Milliseconds(), "error", err)
		} else {
			t.logger.Debug("operation completed", "operation", t.operation, "duration_ms", elapsed.Milliseconds())
		}
	}
	return elapsed
}
