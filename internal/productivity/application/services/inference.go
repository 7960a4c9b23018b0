package services

import (
	"strings"
	"unicode/utf8"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/value_objects"
)

// keywordRule maps a keyword set to an estimate. Rules are evaluated in order
// and the first one with any keyword in the text wins.
type keywordRule struct {
	keywords []string
	value    float64
}

// Quick before heavy before medium. Keyword sets overlap in real text, so the
// order decides the outcome.
var estimateRules = []keywordRule{
	{keywords: []string{"call", "email", "buy", "check", "review", "submit", "send"}, value: 15},
	{keywords: []string{"research", "analyze", "create", "develop", "design", "study", "project"}, value: 90},
	{keywords: []string{"write", "update", "fix", "test", "organize"}, value: 45},
}

var complexityRules = []keywordRule{
	{keywords: []string{"analyze", "research", "design", "develop", "algorithm", "system"}, value: 8},
	{keywords: []string{"call", "email", "buy", "check"}, value: 3},
}

const defaultComplexity = 5

var categoryImportance = map[value_objects.Category]float64{
	value_objects.CategoryWork:     0.8,
	value_objects.CategoryAcademic: 0.7,
	value_objects.CategoryPersonal: 0.4,
}

var priorityImportance = map[value_objects.Priority]float64{
	value_objects.PriorityHigh:   0.9,
	value_objects.PriorityMedium: 0.6,
	value_objects.PriorityLow:    0.3,
}

const (
	baseImportance             = 0.5
	unmappedPriorityImportance = 0.6
	longDescriptionBonus       = 0.1
	longDescriptionChars       = 100
)

func matchFirst(text string, rules []keywordRule) (float64, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.value, true
			}
		}
	}
	return 0, false
}

// InferEstimateMinutes guesses the effort of a task from its text.
func InferEstimateMinutes(t task.Task) float64 {
	if minutes, ok := matchFirst(t.Text(), estimateRules); ok {
		return minutes
	}

	switch n := utf8.RuneCountInString(t.Description); {
	case n > 200:
		return 60
	case n > 100:
		return 30
	default:
		return 20
	}
}

// InferComplexity guesses a 0-10 complexity from the task text.
func InferComplexity(t task.Task) float64 {
	if complexity, ok := matchFirst(t.Text(), complexityRules); ok {
		return complexity
	}
	return defaultComplexity
}

// InferImportance derives importance from category, priority and description length.
func InferImportance(t task.Task) float64 {
	score := baseImportance
	if w, ok := categoryImportance[t.Category]; ok {
		score = w
	}

	fromPriority := unmappedPriorityImportance
	if w, ok := priorityImportance[t.Priority]; ok {
		fromPriority = w
	}
	if fromPriority > score {
		score = fromPriority
	}

	if utf8.RuneCountInString(t.Description) > longDescriptionChars {
		score += longDescriptionBonus
	}

	return clamp01(score)
}

// NormalizeImportance maps 0-1, 0-10 and 0-100 inputs onto 0-1.
func NormalizeImportance(v float64) float64 {
	switch {
	case v > 10:
		v /= 100
	case v > 1:
		v /= 10
	}
	return clamp01(v)
}

// EstimateMinutes returns the supplied estimate or an inferred one.
func EstimateMinutes(t task.Task) float64 {
	if t.EstimateMinutes != nil {
		return *t.EstimateMinutes
	}
	return InferEstimateMinutes(t)
}

// Complexity returns the supplied complexity or an inferred one.
func Complexity(t task.Task) float64 {
	if t.EffortComplexity != nil {
		return *t.EffortComplexity
	}
	return InferComplexity(t)
}
