package services

import (
	"fmt"
	"math"
)

// Factor names one of the five scoring components.
type Factor string

const (
	FactorUrgency    Factor = "urgency"
	FactorImportance Factor = "importance"
	FactorTiming     Factor = "timing"
	FactorEffort     Factor = "effort"
	FactorHistory    Factor = "history"
)

// factorOrder is the canonical component order; ties in the breakdown keep it.
var factorOrder = []Factor{
	FactorUrgency,
	FactorImportance,
	FactorTiming,
	FactorEffort,
	FactorHistory,
}

// Weights are the component weights of the base score. They must sum to 1.
type Weights struct {
	Urgency    float64 `json:"urgency" yaml:"urgency"`
	Importance float64 `json:"importance" yaml:"importance"`
	Timing     float64 `json:"timing" yaml:"timing"`
	Effort     float64 `json:"effort" yaml:"effort"`
	History    float64 `json:"history" yaml:"history"`
}

// For returns the weight of a single factor.
func (w Weights) For(f Factor) float64 {
	switch f {
	case FactorUrgency:
		return w.Urgency
	case FactorImportance:
		return w.Importance
	case FactorTiming:
		return w.Timing
	case FactorEffort:
		return w.Effort
	case FactorHistory:
		return w.History
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Timing + w.Effort + w.History
}

// PriorityEngineConfig tunes how signals combine into a score.
type PriorityEngineConfig struct {
	Weights Weights `json:"weights" yaml:"weights"`

	// UrgencyWindowHours is how far ahead of a deadline urgency starts ramping up.
	UrgencyWindowHours float64 `json:"urgencyWindowHours" yaml:"urgency_window_hours"`

	// MaxEffortMinutes is the estimate at which the effort score bottoms out.
	MaxEffortMinutes float64 `json:"maxEffortMinutes" yaml:"max_effort_minutes"`

	// PostponePenaltyRate is the exponential decay applied per postponement.
	PostponePenaltyRate float64 `json:"postponePenaltyRate" yaml:"postpone_penalty_rate"`
}

// DefaultPriorityEngineConfig returns a production-friendly configuration.
func DefaultPriorityEngineConfig() PriorityEngineConfig {
	return PriorityEngineConfig{
		Weights: Weights{
			Urgency:    0.33,
			Importance: 0.28,
			Timing:     0.15,
			Effort:     0.12,
			History:    0.12,
		},
		UrgencyWindowHours:  72,
		MaxEffortMinutes:    120,
		PostponePenaltyRate: 0.4,
	}
}

const weightSumTolerance = 1e-6

// Validate checks the configuration and returns a *ConfigValidationError for
// the first problem found.
func (c PriorityEngineConfig) Validate() error {
	for _, f := range factorOrder {
		w := c.Weights.For(f)
		if math.IsNaN(w) || w < 0 {
			return NewConfigValidationError("weights."+string(f), "must be a non-negative number", w)
		}
	}

	if sum := c.Weights.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return NewConfigValidationError("weights", fmt.Sprintf("must sum to 1.0, got %.6f", sum), c.Weights)
	}

	if !(c.UrgencyWindowHours > 0) {
		return NewConfigValidationError("urgency_window_hours", "must be greater than zero", c.UrgencyWindowHours)
	}
	if !(c.MaxEffortMinutes > 0) {
		return NewConfigValidationError("max_effort_minutes", "must be greater than zero", c.MaxEffortMinutes)
	}
	if math.IsNaN(c.PostponePenaltyRate) || c.PostponePenaltyRate < 0 {
		return NewConfigValidationError("postpone_penalty_rate", "must be zero or greater", c.PostponePenaltyRate)
	}

	return nil
}
