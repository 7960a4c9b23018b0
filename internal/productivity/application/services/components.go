package services

import (
	"math"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// Components are the five normalized sub-scores, each in [0,1].
type Components struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Timing     float64 `json:"timing"`
	Effort     float64 `json:"effort"`
	History    float64 `json:"history"`
}

// Value returns the sub-score for a factor.
func (c Components) Value(f Factor) float64 {
	switch f {
	case FactorUrgency:
		return c.Urgency
	case FactorImportance:
		return c.Importance
	case FactorTiming:
		return c.Timing
	case FactorEffort:
		return c.Effort
	case FactorHistory:
		return c.History
	default:
		return 0
	}
}

const (
	hardDeadlineMultiplier = 1.2

	neutralTiming          = 0.5
	workHoursTiming        = 0.9
	personalOffHoursTiming = 0.8
	workWeekendFactor      = 0.7
	productiveHourFactor   = 1.2

	highComplexityThreshold = 7
	highComplexityFactor    = 0.9

	historyPostponeWeight   = 0.4
	historyCompletionWeight = 0.4
	historyAgeWeight        = 0.2
	staleTaskAge            = 30 * 24 * time.Hour
	staleTaskFactor         = 0.9
)

func (e *PriorityEngine) components(t task.Task, now time.Time, uc task.UserContext) Components {
	return Components{
		Urgency:    e.urgencyScore(t, now),
		Importance: importanceScore(t),
		Timing:     timingScore(t, now, uc),
		Effort:     e.effortScore(t),
		History:    e.historyScore(t, now),
	}
}

func (e *PriorityEngine) urgencyScore(t task.Task, now time.Time) float64 {
	hoursLeft, ok := t.HoursUntilDue(now)
	if !ok {
		return 0
	}
	if hoursLeft <= 0 {
		return 1
	}

	score := clamp01(1 - hoursLeft/e.config.UrgencyWindowHours)
	if t.DueType.IsHard() {
		score *= hardDeadlineMultiplier
	}
	return clamp01(score)
}

func importanceScore(t task.Task) float64 {
	if t.Importance != nil {
		return NormalizeImportance(*t.Importance)
	}
	return InferImportance(t)
}

func timingScore(t task.Task, now time.Time, uc task.UserContext) float64 {
	hour := now.Hour()
	score := neutralTiming

	if start, ok := t.PreferredStart(); ok {
		switch diff := absInt(hour - start.Hour()); {
		case diff <= 1:
			score = 1.0
		case diff <= 2:
			score = 0.8
		case diff <= 4:
			score = 0.6
		default:
			score = 0.3
		}
	} else {
		switch {
		case t.Category == value_objects.CategoryWork && hour >= 9 && hour <= 17:
			score = workHoursTiming
		case t.Category == value_objects.CategoryPersonal && (hour >= 18 || hour <= 8):
			score = personalOffHoursTiming
		}
	}

	if t.Category == value_objects.CategoryWork && isWeekend(now) {
		score *= workWeekendFactor
	}
	if uc.IsProductiveHour(hour) {
		score *= productiveHourFactor
	}

	return clamp01(score)
}

func (e *PriorityEngine) effortScore(t task.Task) float64 {
	normalized := math.Min(EstimateMinutes(t)/e.config.MaxEffortMinutes, 1)
	score := 1 - normalized
	if Complexity(t) > highComplexityThreshold {
		score *= highComplexityFactor
	}
	return clamp01(score)
}

func (e *PriorityEngine) historyScore(t task.Task, now time.Time) float64 {
	postpone := math.Exp(-e.config.PostponePenaltyRate * float64(t.Postponements()))

	age := 1.0
	if t.Age(now) > staleTaskAge {
		age = staleTaskFactor
	}

	return clamp01(historyPostponeWeight*postpone +
		historyCompletionWeight*t.CompletionRateOrDefault() +
		historyAgeWeight*age)
}

func isWeekend(now time.Time) bool {
	day := now.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
