package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
)

func TestUrgencyScore(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		task     task.Task
		expected float64
	}{
		{"no due date", task.Task{}, 0},
		{"overdue", task.Task{DueDate: at(-time.Hour)}, 1},
		{"due exactly now", task.Task{DueDate: at(0)}, 1},
		{"half window soft", task.Task{DueDate: at(36 * time.Hour)}, 0.5},
		{"half window hard", task.Task{DueDate: at(36 * time.Hour), DueType: value_objects.DueTypeHard}, 0.6},
		{"hard deadline saturates", task.Task{DueDate: at(6 * time.Hour), DueType: value_objects.DueTypeHard}, 1},
		{"beyond window", task.Task{DueDate: at(100 * time.Hour)}, 0},
		{"exactly at window", task.Task{DueDate: at(72 * time.Hour), DueType: value_objects.DueTypeHard}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, engine.urgencyScore(tt.task, testNow), 1e-9)
		})
	}

	t.Run("never decreases as the deadline approaches", func(t *testing.T) {
		for _, dueType := range []value_objects.DueType{value_objects.DueTypeSoft, value_objects.DueTypeHard} {
			prev := -1.0
			for hours := 120.0; hours >= -5; hours -= 0.5 {
				due := testNow.Add(time.Duration(hours * float64(time.Hour)))
				score := engine.urgencyScore(task.Task{DueDate: &due, DueType: dueType}, testNow)
				assert.GreaterOrEqual(t, score, prev, "hours=%v", hours)
				prev = score
			}
		}
	})
}

func TestImportanceScore(t *testing.T) {
	longDescription := strings.Repeat("x", 101)

	tests := []struct {
		name     string
		task     task.Task
		expected float64
	}{
		{"unit scale", task.Task{Importance: ptr(0.5)}, 0.5},
		{"ten scale", task.Task{Importance: ptr(7.0)}, 0.7},
		{"hundred scale", task.Task{Importance: ptr(85.0)}, 0.85},
		{"above hundred clamps", task.Task{Importance: ptr(150.0)}, 1},
		{"exactly one stays", task.Task{Importance: ptr(1.0)}, 1},
		{"exactly ten", task.Task{Importance: ptr(10.0)}, 1},
		{"zero is supplied, not inferred", task.Task{Importance: ptr(0.0), Category: value_objects.CategoryWork}, 0},
		{"negative clamps", task.Task{Importance: ptr(-3.0)}, 0},
		{"work category", task.Task{Category: value_objects.CategoryWork}, 0.8},
		{"academic category", task.Task{Category: value_objects.CategoryAcademic}, 0.7},
		{"personal lifted by default priority", task.Task{Category: value_objects.CategoryPersonal}, 0.6},
		{"personal low priority", task.Task{Category: value_objects.CategoryPersonal, Priority: value_objects.PriorityLow}, 0.4},
		{"high priority wins", task.Task{Category: value_objects.CategoryAcademic, Priority: value_objects.PriorityHigh}, 0.9},
		{"unknown category", task.Task{Category: value_objects.Category("Errands")}, 0.6},
		{"long description bonus", task.Task{Category: value_objects.CategoryWork, Description: longDescription}, 0.9},
		{"bonus clamps", task.Task{Priority: value_objects.PriorityHigh, Description: longDescription}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, importanceScore(tt.task), 1e-9)
		})
	}
}

func TestTimingScore(t *testing.T) {
	saturday := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 11, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     task.Task
		now      time.Time
		uc       task.UserContext
		expected float64
	}{
		{"start within an hour", task.Task{StartTime: "10:30"}, testNow, task.UserContext{}, 1.0},
		{"start two hours away", task.Task{StartTime: "12:00"}, testNow, task.UserContext{}, 0.8},
		{"start four hours earlier", task.Task{StartTime: "06:00"}, testNow, task.UserContext{}, 0.6},
		{"start far away", task.Task{StartTime: "20:00"}, testNow, task.UserContext{}, 0.3},
		{"malformed start falls back", task.Task{StartTime: "later", Category: value_objects.CategoryWork}, testNow, task.UserContext{}, 0.9},
		{"work during office hours", task.Task{Category: value_objects.CategoryWork}, testNow, task.UserContext{}, 0.9},
		{"personal during office hours", task.Task{Category: value_objects.CategoryPersonal}, testNow, task.UserContext{}, 0.5},
		{"personal in the evening", task.Task{Category: value_objects.CategoryPersonal}, evening, task.UserContext{}, 0.8},
		{"work in the evening", task.Task{Category: value_objects.CategoryWork}, evening, task.UserContext{}, 0.5},
		{"work on the weekend", task.Task{Category: value_objects.CategoryWork}, saturday, task.UserContext{}, 0.63},
		{"academic is neutral", task.Task{Category: value_objects.CategoryAcademic}, testNow, task.UserContext{}, 0.5},
		{"productive hour boost", task.Task{}, testNow, task.UserContext{ProductiveHours: []int{9, 10}}, 0.6},
		{"productive hour clamps", task.Task{Category: value_objects.CategoryWork}, testNow, task.UserContext{ProductiveHours: []int{10}}, 1.0},
		{"other productive hours ignored", task.Task{}, testNow, task.UserContext{ProductiveHours: []int{14}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, timingScore(tt.task, tt.now, tt.uc), 1e-9)
		})
	}
}

func TestEffortScore(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		task     task.Task
		expected float64
	}{
		{"explicit estimate", task.Task{EstimateMinutes: ptr(30.0)}, 0.75},
		{"at the cap", task.Task{EstimateMinutes: ptr(120.0)}, 0},
		{"beyond the cap", task.Task{EstimateMinutes: ptr(300.0)}, 0},
		{"quick keyword", task.Task{Title: "Call mom"}, 0.875},
		{"heavy keyword with complexity penalty", task.Task{Title: "Research paper"}, 0.225},
		{"explicit complexity penalty", task.Task{EstimateMinutes: ptr(60.0), EffortComplexity: ptr(9.0)}, 0.45},
		{"complexity at threshold has no penalty", task.Task{EstimateMinutes: ptr(60.0), EffortComplexity: ptr(7.0)}, 0.5},
		{"short default", task.Task{Title: "Misc"}, 1 - 20.0/120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, engine.effortScore(tt.task), 1e-9)
		})
	}

	t.Run("never increases with the estimate", func(t *testing.T) {
		prev := 2.0
		for minutes := -10.0; minutes <= 200; minutes += 5 {
			score := engine.effortScore(task.Task{EstimateMinutes: ptr(minutes)})
			assert.LessOrEqual(t, score, prev, "minutes=%v", minutes)
			prev = score
		}
	})
}

func TestHistoryScore(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		task     task.Task
		expected float64
	}{
		{"defaults", task.Task{}, 0.92},
		{"postponed twice", task.Task{TimesPostponed: ptr(2)}, 0.4*math.Exp(-0.8) + 0.32 + 0.2},
		{"never postponed", task.Task{TimesPostponed: ptr(0)}, 0.92},
		{"stale task", task.Task{CreatedAt: at(-40 * 24 * time.Hour)}, 0.9},
		{"recent task", task.Task{CreatedAt: at(-10 * 24 * time.Hour)}, 0.92},
		{"low completion rate", task.Task{CompletionRate: ptr(0.5)}, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, engine.historyScore(tt.task, testNow), 1e-9)
		})
	}
}

func TestInference(t *testing.T) {
	t.Run("estimate keywords are first match wins", func(t *testing.T) {
		tests := []struct {
			title    string
			expected float64
		}{
			{"Email the team", 15},
			{"Design the onboarding flow", 90},
			{"Fix login bug", 45},
			{"Review the project design", 15},
			{"Write the research summary", 90},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, InferEstimateMinutes(task.Task{Title: tt.title}), tt.title)
		}
	})

	t.Run("estimate falls back to description length", func(t *testing.T) {
		assert.Equal(t, 60.0, InferEstimateMinutes(task.Task{Title: "Misc", Description: strings.Repeat("a", 201)}))
		assert.Equal(t, 30.0, InferEstimateMinutes(task.Task{Title: "Misc", Description: strings.Repeat("a", 101)}))
		assert.Equal(t, 20.0, InferEstimateMinutes(task.Task{Title: "Misc", Description: strings.Repeat("a", 100)}))
	})

	t.Run("keywords match case-insensitively across title and description", func(t *testing.T) {
		assert.Equal(t, 15.0, InferEstimateMinutes(task.Task{Title: "Mom", Description: "CALL her back"}))
	})

	t.Run("complexity", func(t *testing.T) {
		assert.Equal(t, 3.0, InferComplexity(task.Task{Title: "Call the bank"}))
		assert.Equal(t, 8.0, InferComplexity(task.Task{Title: "Analyze logs"}))
		assert.Equal(t, 5.0, InferComplexity(task.Task{Title: "Plan the trip"}))
		assert.Equal(t, 8.0, InferComplexity(task.Task{Title: "Check the algorithm"}))
	})

	t.Run("supplied values win", func(t *testing.T) {
		tk := task.Task{Title: "Call mom", EstimateMinutes: ptr(50.0), EffortComplexity: ptr(2.0)}
		assert.Equal(t, 50.0, EstimateMinutes(tk))
		assert.Equal(t, 2.0, Complexity(tk))
	})
}

func TestBehaviorMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		uc       task.UserContext
		expected float64
	}{
		{"defaults", task.UserContext{}, 1.08},
		{"streak bonus", task.UserContext{RecentPositiveSignalRatio: ptr(1.0), CompletionStreak: ptr(5)}, 1.2},
		{"streak bonus caps", task.UserContext{RecentPositiveSignalRatio: ptr(1.0), CompletionStreak: ptr(50)}, 1.3},
		{"no signal", task.UserContext{RecentPositiveSignalRatio: ptr(0.0), CompletionStreak: ptr(0)}, 1.0},
		{"floor", task.UserContext{RecentPositiveSignalRatio: ptr(-5.0)}, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, behaviorMultiplier(tt.uc), 1e-9)
		})
	}
}

func TestContextMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		task     task.Task
		uc       task.UserContext
		expected float64
	}{
		{"neutral", task.Task{}, task.UserContext{}, 1.0},
		{"laptop task on mobile", task.Task{RequiredDevice: "laptop"}, task.UserContext{Device: "mobile"}, 0.7},
		{"device match is case-insensitive", task.Task{RequiredDevice: "Laptop"}, task.UserContext{Device: "MOBILE"}, 0.7},
		{"laptop task on laptop", task.Task{RequiredDevice: "laptop"}, task.UserContext{Device: "laptop"}, 1.0},
		{"location mismatch", task.Task{PreferredLocation: "office"}, task.UserContext{Location: "home"}, 0.9},
		{"location unknown counts as mismatch", task.Task{PreferredLocation: "office"}, task.UserContext{}, 0.9},
		{"location match", task.Task{PreferredLocation: "office"}, task.UserContext{Location: "Office"}, 1.0},
		{"low energy complex task", task.Task{EffortComplexity: ptr(9.0)}, task.UserContext{EnergyLevel: value_objects.EnergyLow}, 0.8},
		{"low energy simple task", task.Task{EffortComplexity: ptr(4.0)}, task.UserContext{EnergyLevel: value_objects.EnergyLow}, 1.0},
		{"high energy complex task", task.Task{EffortComplexity: ptr(9.0)}, task.UserContext{EnergyLevel: value_objects.EnergyHigh}, 1.0},
		{"everything clamps at the floor", task.Task{RequiredDevice: "laptop", PreferredLocation: "office", EffortComplexity: ptr(9.0)},
			task.UserContext{Device: "mobile", Location: "home", EnergyLevel: value_objects.EnergyLow}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, contextMultiplier(tt.task, tt.uc), 1e-9)
		})
	}
}
