package task

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestTask_Deadline(t *testing.T) {
	t.Run("no due date", func(t *testing.T) {
		tk := Task{Title: "Read"}

		hours, ok := tk.HoursUntilDue(now)

		assert.False(t, tk.HasDeadline())
		assert.False(t, tk.IsOverdue(now))
		assert.False(t, ok)
		assert.Zero(t, hours)
	})

	t.Run("future", func(t *testing.T) {
		tk := Task{DueDate: ptr(now.Add(36 * time.Hour))}

		hours, ok := tk.HoursUntilDue(now)

		assert.True(t, ok)
		assert.Equal(t, 36.0, hours)
		assert.False(t, tk.IsOverdue(now))
	})

	t.Run("past", func(t *testing.T) {
		tk := Task{DueDate: ptr(now.Add(-90 * time.Minute))}

		hours, _ := tk.HoursUntilDue(now)

		assert.Equal(t, -1.5, hours)
		assert.True(t, tk.IsOverdue(now))
	})

	t.Run("due exactly now is not overdue", func(t *testing.T) {
		tk := Task{DueDate: ptr(now)}

		assert.False(t, tk.IsOverdue(now))
	})
}

func TestTask_Defaults(t *testing.T) {
	tk := Task{Title: "Write REPORT", Description: "Quarterly Numbers"}

	assert.Equal(t, "write report quarterly numbers", tk.Text())
	assert.Zero(t, tk.Age(now))
	assert.Equal(t, 0, tk.Postponements())
	assert.Equal(t, DefaultCompletionRate, tk.CompletionRateOrDefault())

	tk.CreatedAt = ptr(now.Add(-48 * time.Hour))
	tk.TimesPostponed = ptr(-2)
	tk.CompletionRate = ptr(0.25)

	assert.Equal(t, 48*time.Hour, tk.Age(now))
	assert.Equal(t, 0, tk.Postponements())
	assert.Equal(t, 0.25, tk.CompletionRateOrDefault())
}

func TestTask_PreferredStart(t *testing.T) {
	tests := []struct {
		startTime string
		ok        bool
		hour      int
		minute    int
	}{
		{"", false, 0, 0},
		{"14:30", true, 14, 30},
		{"9", true, 9, 0},
		{"25:00", false, 0, 0},
		{"soon", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.startTime, func(t *testing.T) {
			st, ok := Task{StartTime: tt.startTime}.PreferredStart()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.hour, st.Hour())
			assert.Equal(t, tt.minute, st.Minute())
		})
	}
}

func TestTask_UnmarshalJSON(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		var tk Task
		err := json.Unmarshal([]byte(`{
			"id": "t1",
			"title": "Submit thesis",
			"description": "final draft",
			"dueDate": "2026-03-12T18:00:00Z",
			"dueType": "HARD",
			"importance": 0.9,
			"category": "academic",
			"priority": "high",
			"startTime": " 09:30 ",
			"estimateMinutes": "45",
			"timesPostponed": 2,
			"completionRate": 0.5,
			"createdAt": 1772755200000,
			"requiredDevice": "laptop",
			"preferredLocation": "library"
		}`), &tk)

		require.NoError(t, err)
		assert.Equal(t, "t1", tk.ID)
		assert.Equal(t, "Submit thesis", tk.Title)
		assert.Equal(t, "final draft", tk.Description)
		require.NotNil(t, tk.DueDate)
		assert.Equal(t, time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC), tk.DueDate.UTC())
		assert.Equal(t, value_objects.DueTypeHard, tk.DueType)
		assert.Equal(t, ptr(0.9), tk.Importance)
		assert.Equal(t, value_objects.CategoryAcademic, tk.Category)
		assert.Equal(t, value_objects.PriorityHigh, tk.Priority)
		assert.Equal(t, "09:30", tk.StartTime)
		assert.Equal(t, ptr(45.0), tk.EstimateMinutes)
		assert.Equal(t, ptr(2), tk.TimesPostponed)
		assert.Equal(t, ptr(0.5), tk.CompletionRate)
		require.NotNil(t, tk.CreatedAt)
		assert.Equal(t, time.UnixMilli(1772755200000).UTC(), *tk.CreatedAt)
		assert.Equal(t, "laptop", tk.RequiredDevice)
		assert.Equal(t, "library", tk.PreferredLocation)
	})

	t.Run("malformed fields are dropped", func(t *testing.T) {
		var tk Task
		err := json.Unmarshal([]byte(`{
			"title": "Fix bike",
			"dueDate": "next tuesday",
			"importance": "very",
			"priority": "urgent",
			"timesPostponed": null,
			"estimateMinutes": {"h": 1}
		}`), &tk)

		require.NoError(t, err)
		assert.Equal(t, "Fix bike", tk.Title)
		assert.Nil(t, tk.DueDate)
		assert.Nil(t, tk.Importance)
		assert.Equal(t, value_objects.PriorityNone, tk.Priority)
		assert.Nil(t, tk.TimesPostponed)
		assert.Nil(t, tk.EstimateMinutes)
	})

	t.Run("numeric title becomes text", func(t *testing.T) {
		var tk Task

		require.NoError(t, json.Unmarshal([]byte(`{"title": 42}`), &tk))

		assert.Equal(t, "42", tk.Title)
	})

	t.Run("unknown category kept verbatim", func(t *testing.T) {
		var tk Task

		require.NoError(t, json.Unmarshal([]byte(`{"category": " Health "}`), &tk))

		assert.Equal(t, value_objects.Category("Health"), tk.Category)
		assert.False(t, tk.Category.IsKnown())
	})

	t.Run("integer fields saturate", func(t *testing.T) {
		tests := []struct {
			payload  string
			expected int
		}{
			{`{"timesPostponed": 1e300}`, math.MaxInt32},
			{`{"timesPostponed": "9999999999"}`, math.MaxInt32},
			{`{"timesPostponed": -1e300}`, math.MinInt32},
			{`{"timesPostponed": 3.9}`, 3},
		}

		for _, tt := range tests {
			var tk Task
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &tk), tt.payload)
			require.NotNil(t, tk.TimesPostponed, tt.payload)
			assert.Equal(t, tt.expected, *tk.TimesPostponed, tt.payload)
		}

		var tk Task
		require.NoError(t, json.Unmarshal([]byte(`{"timesPostponed": 1e300}`), &tk))
		assert.Equal(t, math.MaxInt32, tk.Postponements())
	})

	t.Run("non-object payload is an error", func(t *testing.T) {
		var tk Task

		assert.Error(t, json.Unmarshal([]byte(`["x"]`), &tk))
		assert.Error(t, json.Unmarshal([]byte(`"x"`), &tk))
	})
}

func TestUserContext_UnmarshalJSON(t *testing.T) {
	var uc UserContext
	err := json.Unmarshal([]byte(`{
		"recentPositiveSignalRatio": "0.4",
		"completionStreak": 3.7,
		"productiveHours": [9, "10", 24, -1, "x", 14],
		"device": "phone",
		"location": "home",
		"energyLevel": " HIGH "
	}`), &uc)

	require.NoError(t, err)
	assert.Equal(t, 0.4, uc.PositiveSignalRatio())
	assert.Equal(t, ptr(3), uc.CompletionStreak)
	assert.Equal(t, []int{9, 10, 14}, uc.ProductiveHours)
	assert.True(t, uc.IsProductiveHour(10))
	assert.False(t, uc.IsProductiveHour(11))
	assert.Equal(t, "phone", uc.Device)
	assert.Equal(t, "home", uc.Location)
	assert.Equal(t, value_objects.EnergyHigh, uc.EnergyLevel)
}

func TestUserContext_Defaults(t *testing.T) {
	var uc UserContext

	assert.Equal(t, DefaultPositiveSignalRatio, uc.PositiveSignalRatio())
	assert.False(t, uc.IsProductiveHour(9))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected *time.Time
	}{
		{"2026-03-11T10:00:00Z", ptr(now)},
		{"2026-03-11T11:00:00+01:00", ptr(now)},
		{"2026-03-11T10:00:00", ptr(now)},
		{"2026-03-11 10:00:00", ptr(now)},
		{"2026-03-11T10:00", ptr(now)},
		{"2026-03-11", ptr(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"  ", nil},
		{"11/03/2026", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTimestamp(tt.input)

			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.expected.Equal(*got), "got %s", got)
		})
	}
}
