package adjustment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// ErrCircuitOpen is returned while the breaker rejects calls to the wrapped source.
var ErrCircuitOpen = errors.New("adjustment source circuit open")

// BreakerConfig configures BreakerSource.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
	// CallTimeout bounds each call to the wrapped source. Zero disables it.
	CallTimeout time.Duration
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		CallTimeout:      250 * time.Millisecond,
	}
}

// BreakerSource protects ranking latency from a slow or failing adjustment
// source. Callers already fail soft on errors; the breaker stops them from
// paying the timeout on every request while the source is down.
type BreakerSource struct {
	next    task.AdjustmentSource
	breaker *gobreaker.CircuitBreaker[map[string]float64]
	timeout time.Duration
}

// NewBreakerSource wraps next with a circuit breaker.
func NewBreakerSource(next task.AdjustmentSource, cfg BreakerConfig, metrics observability.Metrics, logger *slog.Logger) *BreakerSource {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "adjustments",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Counter(observability.MetricBreakerTransitions, 1, observability.T("to", to.String()))
		},
	}

	return &BreakerSource{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[map[string]float64](settings),
		timeout: cfg.CallTimeout,
	}
}

func (s *BreakerSource) Adjustments(ctx context.Context, userID uuid.UUID, taskIDs []string) (map[string]float64, error) {
	out, err := s.breaker.Execute(func() (map[string]float64, error) {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.next.Adjustments(callCtx, userID, taskIDs)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return out, err
}

// State reports the breaker state, for health checks.
func (s *BreakerSource) State() string {
	return s.breaker.State().String()
}

var _ task.AdjustmentSource = (*BreakerSource)(nil)
