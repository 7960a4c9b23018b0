package services

import (
	"math"
	"strings"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// Multipliers scale the base score. MLAdjustment is added after scaling.
type Multipliers struct {
	Behavior     float64 `json:"behavior"`
	Context      float64 `json:"context"`
	MLAdjustment float64 `json:"mlAdjustment"`
}

const (
	behaviorSignalWeight  = 0.1
	behaviorStreakStep    = 0.02
	behaviorStreakCap     = 0.2
	minBehaviorMultiplier = 0.8
	maxBehaviorMultiplier = 1.3

	deviceMismatchFactor   = 0.7
	locationMismatchFactor = 0.9
	lowEnergyFactor        = 0.8
	minContextMultiplier   = 0.7
	maxContextMultiplier   = 1.3

	deviceLaptop = "laptop"
	deviceMobile = "mobile"
)

func behaviorMultiplier(uc task.UserContext) float64 {
	streakBonus := 0.0
	if uc.CompletionStreak != nil {
		streakBonus = math.Min(float64(*uc.CompletionStreak)*behaviorStreakStep, behaviorStreakCap)
	}

	m := 1 + behaviorSignalWeight*uc.PositiveSignalRatio() + streakBonus
	return clamp(m, minBehaviorMultiplier, maxBehaviorMultiplier)
}

// contextMultiplier penalizes tasks the user cannot reasonably do right now.
// The energy rule looks at the supplied complexity only.
func contextMultiplier(t task.Task, uc task.UserContext) float64 {
	m := 1.0

	if strings.EqualFold(t.RequiredDevice, deviceLaptop) && strings.EqualFold(uc.Device, deviceMobile) {
		m *= deviceMismatchFactor
	}
	if t.PreferredLocation != "" && !strings.EqualFold(t.PreferredLocation, uc.Location) {
		m *= locationMismatchFactor
	}
	if uc.EnergyLevel == value_objects.EnergyLow &&
		t.EffortComplexity != nil && *t.EffortComplexity > highComplexityThreshold {
		m *= lowEnergyFactor
	}

	return clamp(m, minContextMultiplier, maxContextMultiplier)
}
