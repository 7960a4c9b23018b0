package task

import (
	"slices"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// DefaultPositiveSignalRatio is assumed when the caller has no recent history.
const DefaultPositiveSignalRatio = 0.8

// UserContext carries the behavioural and environmental signals of the person
// the ranking is for. It is supplied per call and never stored by the engine.
type UserContext struct {
	RecentPositiveSignalRatio *float64                  `json:"recentPositiveSignalRatio,omitempty"`
	CompletionStreak          *int                      `json:"completionStreak,omitempty"`
	ProductiveHours           []int                     `json:"productiveHours,omitempty"`
	Device                    string                    `json:"device,omitempty"`
	Location                  string                    `json:"location,omitempty"`
	EnergyLevel               value_objects.EnergyLevel `json:"energyLevel,omitempty"`
}

// PositiveSignalRatio returns RecentPositiveSignalRatio or its default.
func (c UserContext) PositiveSignalRatio() float64 {
	if c.RecentPositiveSignalRatio == nil {
		return DefaultPositiveSignalRatio
	}
	return *c.RecentPositiveSignalRatio
}

// IsProductiveHour reports whether hour is one of the user's productive hours.
func (c UserContext) IsProductiveHour(hour int) bool {
	return slices.Contains(c.ProductiveHours, hour)
}
