package task

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON decodes a task leniently. Only a payload that is not a JSON
// object is an error; a malformed field is dropped as if it were absent.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task{
		ID:                lenientString(raw["id"]),
		Title:             lenientString(raw["title"]),
		Description:       lenientString(raw["description"]),
		DueDate:           lenientTime(raw["dueDate"]),
		DueType:           value_objects.ParseDueType(lenientString(raw["dueType"])),
		Importance:        lenientFloat(raw["importance"]),
		Category:          value_objects.ParseCategory(lenientString(raw["category"])),
		StartTime:         strings.TrimSpace(lenientString(raw["startTime"])),
		EstimateMinutes:   lenientFloat(raw["estimateMinutes"]),
		EffortComplexity:  lenientFloat(raw["effortComplexity"]),
		TimesPostponed:    lenientInt(raw["timesPostponed"]),
		CompletionRate:    lenientFloat(raw["completionRate"]),
		CreatedAt:         lenientTime(raw["createdAt"]),
		RequiredDevice:    lenientString(raw["requiredDevice"]),
		PreferredLocation: lenientString(raw["preferredLocation"]),
	}

	if p, err := value_objects.ParsePriority(lenientString(raw["priority"])); err == nil {
		t.Priority = p
	}

	return nil
}

// UnmarshalJSON decodes a user context with the same fail-soft rules as Task.
func (c *UserContext) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = UserContext{
		RecentPositiveSignalRatio: lenientFloat(raw["recentPositiveSignalRatio"]),
		CompletionStreak:          lenientInt(raw["completionStreak"]),
		ProductiveHours:           lenientHours(raw["productiveHours"]),
		Device:                    lenientString(raw["device"]),
		Location:                  lenientString(raw["location"]),
		EnergyLevel:               value_objects.ParseEnergyLevel(lenientString(raw["energyLevel"])),
	}

	return nil
}

func isNull(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func lenientString(msg json.RawMessage) string {
	if isNull(msg) {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}

func lenientFloat(msg json.RawMessage) *float64 {
	if isNull(msg) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// lenientInt truncates toward zero and saturates at the int32 bounds.
func lenientInt(msg json.RawMessage) *int {
	f := lenientFloat(msg)
	if f == nil {
		return nil
	}
	var i int
	switch {
	case *f >= math.MaxInt32:
		i = math.MaxInt32
	case *f <= math.MinInt32:
		i = math.MinInt32
	default:
		i = int(*f)
	}
	return &i
}

func lenientTime(msg json.RawMessage) *time.Time {
	if isNull(msg) {
		return nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return ParseTimestamp(s)
	}

	var ms float64
	if err := json.Unmarshal(msg, &ms); err == nil && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
		ts := time.UnixMilli(int64(ms)).UTC()
		return &ts
	}

	return nil
}

func lenientHours(msg json.RawMessage) []int {
	if isNull(msg) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil
	}

	hours := make([]int, 0, len(items))
	for _, item := range items {
		h := lenientInt(item)
		if h == nil || *h < 0 || *h > 23 {
			continue
		}
		hours = append(hours, *h)
	}
	return hours
}

// ParseTimestamp parses s with the accepted layouts and returns nil when none match.
// Zone-less layouts are read as UTC.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}
