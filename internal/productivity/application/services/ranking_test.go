package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	t.Run("orders by score and assigns rank and priority", func(t *testing.T) {
		ranked := []RankedTask{
			{Task: task.Task{ID: "c"}, AIScore: 0.5},
			{Task: task.Task{ID: "a"}, AIScore: 0.9},
			{Task: task.Task{ID: "d"}, AIScore: 0.3},
			{Task: task.Task{ID: "b"}, AIScore: 0.7},
		}

		Rank(ranked)

		ids := make([]string, 0, len(ranked))
		ranks := make([]int, 0, len(ranked))
		priorities := make([]int, 0, len(ranked))
		for _, r := range ranked {
			ids = append(ids, r.ID)
			ranks = append(ranks, r.AIRank)
			priorities = append(priorities, r.AIPriority)
		}
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
		assert.Equal(t, []int{1, 2, 3, 4}, ranks)
		assert.Equal(t, []int{100, 75, 50, 25}, priorities)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		ranked := []RankedTask{
			{Task: task.Task{ID: "first"}, AIScore: 0.4},
			{Task: task.Task{ID: "top"}, AIScore: 0.8},
			{Task: task.Task{ID: "second"}, AIScore: 0.4},
			{Task: task.Task{ID: "third"}, AIScore: 0.4},
		}

		Rank(ranked)

		assert.Equal(t, "top", ranked[0].ID)
		assert.Equal(t, "first", ranked[1].ID)
		assert.Equal(t, "second", ranked[2].ID)
		assert.Equal(t, "third", ranked[3].ID)
	})

	t.Run("rounds priorities", func(t *testing.T) {
		ranked := []RankedTask{{AIScore: 0.3}, {AIScore: 0.2}, {AIScore: 0.1}}

		Rank(ranked)

		assert.Equal(t, 100, ranked[0].AIPriority)
		assert.Equal(t, 67, ranked[1].AIPriority)
		assert.Equal(t, 33, ranked[2].AIPriority)
	})

	t.Run("single task", func(t *testing.T) {
		ranked := []RankedTask{{AIScore: 0.1}}

		Rank(ranked)

		assert.Equal(t, 1, ranked[0].AIRank)
		assert.Equal(t, 100, ranked[0].AIPriority)
	})

	t.Run("empty", func(t *testing.T) {
		assert.NotPanics(t, func() { Rank(nil) })
	})
}

func TestPriorityEngine_PrioritizeTasks(t *testing.T) {
	tasks := []task.Task{
		{ID: "someday", Title: "Clean garage", Category: value_objects.CategoryPersonal},
		{ID: "overdue", Title: "Submit expenses", DueDate: at(-2 * time.Hour), Category: value_objects.CategoryWork},
		{ID: "tomorrow", Title: "Write report", DueDate: at(20 * time.Hour), Category: value_objects.CategoryWork},
		{ID: "next-week", Title: "Organize files", DueDate: at(7 * 24 * time.Hour)},
		{ID: "postponed", Title: "Fix the fence", TimesPostponed: ptr(6), CreatedAt: at(-60 * 24 * time.Hour)},
	}

	t.Run("output is a sorted permutation", func(t *testing.T) {
		engine := newTestEngine(t)

		ranked := engine.PrioritizeTasks(tasks, task.UserContext{})

		require.Len(t, ranked, len(tasks))
		seen := make(map[string]bool)
		for i, r := range ranked {
			seen[r.ID] = true
			assert.Equal(t, i+1, r.AIRank)
			if i > 0 {
				assert.LessOrEqual(t, r.AIScore, ranked[i-1].AIScore)
			}
		}
		for _, tk := range tasks {
			assert.True(t, seen[tk.ID], tk.ID)
		}
		assert.Equal(t, "overdue", ranked[0].ID)
		assert.Equal(t, 100, ranked[0].AIPriority)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		engine := newTestEngine(t)
		input := append([]task.Task(nil), tasks...)

		engine.PrioritizeTasks(input, task.UserContext{})

		assert.Equal(t, tasks, input)
	})

	t.Run("empty input yields an empty list", func(t *testing.T) {
		engine := newTestEngine(t)

		ranked := engine.PrioritizeTasks(nil, task.UserContext{})

		require.NotNil(t, ranked)
		assert.Empty(t, ranked)
		data, err := json.Marshal(ranked)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("applies ml adjustments per task", func(t *testing.T) {
		engine := newTestEngine(t)
		boost := func(tk task.Task) float64 {
			if tk.ID == "someday" {
				return 1
			}
			return 0
		}

		ranked := engine.PrioritizeTasksAt(testNow, tasks, task.UserContext{}, boost)

		assert.Equal(t, "someday", ranked[0].ID)
		assert.Equal(t, 1.0, ranked[0].AIScore)
		assert.Equal(t, 1.0, ranked[0].AIScoreBreakdown.Multipliers.MLAdjustment)
	})
}

func TestPriorityEngine_ScoreTasks(t *testing.T) {
	t.Run("reads the clock once per batch", func(t *testing.T) {
		calls := 0
		clock := func() time.Time {
			calls++
			return testNow.Add(time.Duration(calls) * time.Hour)
		}
		engine, err := NewPriorityEngine(DefaultPriorityEngineConfig(), WithClock(clock))
		require.NoError(t, err)

		due := testNow.Add(48 * time.Hour)
		tasks := make([]task.Task, 10)
		for i := range tasks {
			tasks[i] = task.Task{ID: fmt.Sprint(i), Title: "Same task", DueDate: &due}
		}

		scored := engine.ScoreTasks(tasks, task.UserContext{})

		assert.Equal(t, 1, calls)
		for _, s := range scored {
			assert.Equal(t, scored[0].AIScore, s.AIScore)
		}
	})

	t.Run("keeps input order and leaves rank unset", func(t *testing.T) {
		engine := newTestEngine(t)
		tasks := []task.Task{{ID: "a"}, {ID: "b", DueDate: at(-time.Hour)}}

		scored := engine.ScoreTasks(tasks, task.UserContext{})

		require.Len(t, scored, 2)
		assert.Equal(t, "a", scored[0].ID)
		assert.Equal(t, "b", scored[1].ID)
		assert.Zero(t, scored[0].AIRank)
		assert.Zero(t, scored[1].AIRank)
	})

	t.Run("derives insights", func(t *testing.T) {
		engine := newTestEngine(t)
		tasks := []task.Task{
			{ID: "focus", Title: "Research thesis", Importance: ptr(95.0)},
			{ID: "timed", Title: "Standup", StartTime: "10:00"},
		}

		scored := engine.ScoreTasks(tasks, task.UserContext{})

		focus := scored[0].AIInsights
		assert.True(t, focus.RequiresFocus)
		assert.False(t, focus.IsUrgent)
		assert.False(t, focus.IsOverdue)
		assert.Equal(t, UrgencyNone, focus.UrgencyLevel)
		assert.Equal(t, scored[0].AIScoreBreakdown.Explanation.PrimaryReason, focus.PriorityReason)
		assert.Equal(t, scored[0].AIScoreBreakdown.Explanation.Recommendation, focus.TimeRecommendation)

		assert.True(t, scored[1].AIInsights.IsOptimizedForTime)
	})
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		urgency  float64
		overdue  bool
		expected UrgencyLevel
	}{
		{0, false, UrgencyNone},
		{0.1, false, UrgencyLow},
		{0.4, false, UrgencyMedium},
		{0.7, false, UrgencyHigh},
		{0.95, false, UrgencyCritical},
		{0.2, true, UrgencyCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyUrgency(tt.urgency, tt.overdue))
		})
	}
}

func TestRankedTask_JSON(t *testing.T) {
	engine := newTestEngine(t)
	ranked := engine.PrioritizeTasks([]task.Task{{ID: "t1", Title: "Call mom", Priority: value_objects.PriorityHigh}}, task.UserContext{})

	data, err := json.Marshal(ranked[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "t1", decoded["id"])
	assert.Equal(t, "Call mom", decoded["title"])
	assert.Equal(t, "High", decoded["priority"])
	assert.Equal(t, float64(1), decoded["aiRank"])
	assert.Equal(t, float64(100), decoded["aiPriority"])
	assert.Contains(t, decoded, "aiScore")
	assert.Contains(t, decoded["aiScoreBreakdown"], "components")
	assert.Contains(t, decoded["aiInsights"], "isUrgent")
}

func TestRankedTask_UnmarshalJSON(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("score fields survive a round trip", func(t *testing.T) {
		tasks := []task.Task{
			{ID: "t1", Title: "Submit thesis", DueDate: at(6 * time.Hour), DueType: value_objects.DueTypeHard, Importance: ptr(9.0)},
			{ID: "t2", Title: "Call mom", Priority: value_objects.PriorityHigh, TimesPostponed: ptr(2)},
		}
		ranked := engine.PrioritizeTasks(tasks, task.UserContext{})

		data, err := json.Marshal(ranked)
		require.NoError(t, err)

		var decoded []RankedTask
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, len(ranked))

		for i, want := range ranked {
			got := decoded[i]
			assert.Equal(t, want.AIScore, got.AIScore)
			assert.Equal(t, want.AIRank, got.AIRank)
			assert.Equal(t, want.AIPriority, got.AIPriority)
			assert.Equal(t, want.AIScoreBreakdown, got.AIScoreBreakdown)
			assert.Equal(t, want.AIInsights, got.AIInsights)

			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Title, got.Title)
			assert.Equal(t, want.Priority, got.Priority)
			assert.Equal(t, want.Importance, got.Importance)
			assert.Equal(t, want.TimesPostponed, got.TimesPostponed)
		}
		require.NotNil(t, decoded[0].DueDate)
		assert.True(t, ranked[0].DueDate.Equal(*decoded[0].DueDate))
	})

	t.Run("task fields stay lenient", func(t *testing.T) {
		var got RankedTask
		require.NoError(t, json.Unmarshal([]byte(`{"title":"x","importance":"high","aiScore":0.42,"aiRank":3}`), &got))

		assert.Equal(t, "x", got.Title)
		assert.Nil(t, got.Importance)
		assert.Equal(t, 0.42, got.AIScore)
		assert.Equal(t, 3, got.AIRank)
	})

	t.Run("non-object payload is an error", func(t *testing.T) {
		var got RankedTask
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &got))
	})
}

func TestSummarize(t *testing.T) {
	t.Run("aggregates a ranked list", func(t *testing.T) {
		ranked := []RankedTask{
			{Task: task.Task{ID: "a", Title: "Top"}, AIScore: 0.9, AIInsights: Insights{IsUrgent: true, IsOverdue: true}},
			{Task: task.Task{ID: "b"}, AIScore: 0.6, AIInsights: Insights{IsUrgent: true, RequiresFocus: true}},
			{Task: task.Task{ID: "c"}, AIScore: 0.3},
		}

		summary := Summarize(ranked)

		assert.Equal(t, 3, summary.TaskCount)
		assert.InDelta(t, 0.6, summary.AverageScore, 1e-9)
		assert.Equal(t, 2, summary.UrgentCount)
		assert.Equal(t, 1, summary.OverdueCount)
		assert.Equal(t, 1, summary.FocusCount)
		assert.Equal(t, "a", summary.TopTaskID)
		assert.Equal(t, "Top", summary.TopTaskTitle)
		assert.Equal(t, 0.9, summary.TopScore)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Summary{}, Summarize(nil))
	})
}

func TestPriorityEngine_Explain(t *testing.T) {
	engine := newTestEngine(t)
	tk := task.Task{Title: "Write report", DueDate: at(12 * time.Hour), Category: value_objects.CategoryWork, TimesPostponed: ptr(1)}

	explanation := engine.Explain(tk, testNow, task.UserContext{}, 0)
	result := engine.Score(tk, testNow, task.UserContext{}, 0)

	assert.Equal(t, result.FinalScore, explanation.TotalScore)
	assert.Equal(t, result.BaseScore, explanation.BaseScore)
	assert.Equal(t, DefaultPriorityEngineConfig().Weights, explanation.Weights)
	assert.Equal(t, result.Explanation.AllReasons, explanation.Reasons)
	assert.Equal(t, UrgencyHigh, explanation.UrgencyLevel)

	require.Len(t, explanation.Factors, 5)
	total := 0.0
	for i, f := range explanation.Factors {
		total += f.Contribution
		assert.InDelta(t, f.RawValue*f.Weight, f.WeightedValue, 1e-12)
		assert.NotEmpty(t, f.Description)
		if i > 0 {
			assert.LessOrEqual(t, f.WeightedValue, explanation.Factors[i-1].WeightedValue)
		}
	}
	assert.InDelta(t, 100, total, 1e-9)
	assert.Equal(t, FactorUrgency, explanation.Factors[0].Factor)
	assert.Equal(t, "due in 12 hours", explanation.Factors[0].Description)
}
