package services

import (
	"log/slog"
	"math"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// ScoreResult is the full outcome of scoring a single task.
type ScoreResult struct {
	FinalScore  float64     `json:"finalScore"`
	BaseScore   float64     `json:"baseScore"`
	Components  Components  `json:"components"`
	Multipliers Multipliers `json:"multipliers"`
	Explanation Explanation `json:"explanation"`
}

// PriorityEngine computes priority scores from multiple signals.
// It holds no mutable state and is safe for concurrent use.
type PriorityEngine struct {
	config PriorityEngineConfig
	clock  func() time.Time
	logger *slog.Logger
}

// Option configures a PriorityEngine.
type Option func(*PriorityEngine)

// WithClock overrides the time source used by ScoreTasks and PrioritizeTasks.
func WithClock(clock func() time.Time) Option {
	return func(e *PriorityEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the logger used for ranking diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *PriorityEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewPriorityEngine creates a new engine with the given configuration.
// It returns a *ConfigValidationError when the configuration is invalid.
func NewPriorityEngine(cfg PriorityEngineConfig, opts ...Option) (*PriorityEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &PriorityEngine{
		config: cfg,
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewDefaultPriorityEngine creates an engine with DefaultPriorityEngineConfig.
func NewDefaultPriorityEngine(opts ...Option) *PriorityEngine {
	e, err := NewPriorityEngine(DefaultPriorityEngineConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the engine configuration.
func (e *PriorityEngine) Config() PriorityEngineConfig {
	return e.config
}

// Now returns the engine clock reading.
func (e *PriorityEngine) Now() time.Time {
	return e.clock()
}

// Score computes the final score and explanation for one task at the given
// instant. mlAdjustment is added after the multipliers and absorbed by the
// final clamp.
func (e *PriorityEngine) Score(t task.Task, now time.Time, uc task.UserContext, mlAdjustment float64) ScoreResult {
	if math.IsNaN(mlAdjustment) {
		mlAdjustment = 0
	}

	components := e.components(t, now, uc)
	base := e.baseScore(components)
	multipliers := Multipliers{
		Behavior:     behaviorMultiplier(uc),
		Context:      contextMultiplier(t, uc),
		MLAdjustment: mlAdjustment,
	}

	final := clamp01(base*multipliers.Behavior*multipliers.Context + multipliers.MLAdjustment)

	return ScoreResult{
		FinalScore:  final,
		BaseScore:   base,
		Components:  components,
		Multipliers: multipliers,
		Explanation: e.explain(t, now, components),
	}
}

func (e *PriorityEngine) baseScore(c Components) float64 {
	w := e.config.Weights
	return clamp01(c.Urgency*w.Urgency +
		c.Importance*w.Importance +
		c.Timing*w.Timing +
		c.Effort*w.Effort +
		c.History*w.History)
}
