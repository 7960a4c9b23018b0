package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// FactorScore is one entry of the score breakdown.
type FactorScore struct {
	Factor   Factor  `json:"factor"`
	Value    float64 `json:"value"`
	Weighted float64 `json:"weighted"`
}

// Explanation is the human-readable account of a score.
type Explanation struct {
	PrimaryReason  string        `json:"primaryReason"`
	AllReasons     []string      `json:"allReasons"`
	ScoreBreakdown []FactorScore `json:"scoreBreakdown"`
	Recommendation string        `json:"recommendation"`
}

const (
	ReasonOverdue        = "This task is overdue and needs immediate attention"
	ReasonDeadline       = "Deadline approaching"
	ReasonImportant      = "High importance task"
	ReasonPerfectTiming  = "Perfect timing to work on this now"
	ReasonQuickWin       = "Quick win that can be finished fast"
	ReasonBalanced       = "Balanced priority across all factors"
	ReasonDeadlineSoon   = "Deadline is coming up"
	ReasonGoodTimeOfDay  = "Good time of day for this task"
	ReasonLowEffort      = "Low effort required"
	RecommendStartNow    = "Start immediately - deadline is close"
	RecommendGoodTime    = "Good time to work on this"
	RecommendBreakDown   = "Break into smaller chunks to make progress"
	RecommendFocusedTime = "Schedule focused time for this important task"
	RecommendNextSession = "Good candidate for your next work session"
)

const breakdownSize = 3

type reasonInput struct {
	components Components
	overdue    bool
}

// reasonRule pairs a condition on one factor with its message. Rule lists are
// evaluated in order and the first match wins.
type reasonRule struct {
	factor  Factor
	applies func(in reasonInput) bool
	message string
}

var primaryReasonRules = []reasonRule{
	{FactorUrgency, func(in reasonInput) bool { return in.components.Urgency > 0.7 && in.overdue }, ReasonOverdue},
	{FactorUrgency, func(in reasonInput) bool { return in.components.Urgency > 0.7 }, ReasonDeadline},
	{FactorImportance, func(in reasonInput) bool { return in.components.Importance > 0.7 }, ReasonImportant},
	{FactorTiming, func(in reasonInput) bool { return in.components.Timing > 0.8 }, ReasonPerfectTiming},
	{FactorEffort, func(in reasonInput) bool { return in.components.Effort > 0.7 }, ReasonQuickWin},
}

// Secondary reasons are all collected, not first-match.
var secondaryReasonRules = []reasonRule{
	{FactorUrgency, func(in reasonInput) bool { return in.components.Urgency > 0.5 }, ReasonDeadlineSoon},
	{FactorTiming, func(in reasonInput) bool { return in.components.Timing > 0.7 }, ReasonGoodTimeOfDay},
	{FactorEffort, func(in reasonInput) bool { return in.components.Effort > 0.8 }, ReasonLowEffort},
}

type recommendationRule struct {
	applies func(c Components) bool
	message string
}

var recommendationRules = []recommendationRule{
	{func(c Components) bool { return c.Urgency > 0.8 }, RecommendStartNow},
	{func(c Components) bool { return c.Timing > 0.8 }, RecommendGoodTime},
	{func(c Components) bool { return c.Effort < 0.3 }, RecommendBreakDown},
	{func(c Components) bool { return c.Importance > 0.8 }, RecommendFocusedTime},
}

func (e *PriorityEngine) explain(t task.Task, now time.Time, c Components) Explanation {
	ranked := e.rankFactors(c)
	in := reasonInput{components: c, overdue: t.IsOverdue(now)}

	primary, primaryFactor := primaryReason(ranked[0].Factor, in)

	reasons := []string{primary}
	for _, rule := range secondaryReasonRules {
		if rule.factor != primaryFactor && rule.applies(in) {
			reasons = append(reasons, rule.message)
		}
	}

	return Explanation{
		PrimaryReason:  primary,
		AllReasons:     reasons,
		ScoreBreakdown: ranked[:breakdownSize],
		Recommendation: recommendation(c),
	}
}

// rankFactors returns every factor ordered by weighted contribution, highest
// first. Ties keep the canonical factor order.
func (e *PriorityEngine) rankFactors(c Components) []FactorScore {
	scores := make([]FactorScore, 0, len(factorOrder))
	for _, f := range factorOrder {
		v := c.Value(f)
		scores = append(scores, FactorScore{
			Factor:   f,
			Value:    v,
			Weighted: v * e.config.Weights.For(f),
		})
	}
	slices.SortStableFunc(scores, func(a, b FactorScore) int {
		return cmp.Compare(b.Weighted, a.Weighted)
	})
	return scores
}

// primaryReason looks only at the top factor. The returned factor is empty
// when the balanced fallback fires, so no secondary reason gets suppressed.
func primaryReason(top Factor, in reasonInput) (string, Factor) {
	for _, rule := range primaryReasonRules {
		if rule.factor == top && rule.applies(in) {
			return rule.message, top
		}
	}
	return ReasonBalanced, ""
}

func recommendation(c Components) string {
	for _, rule := range recommendationRules {
		if rule.applies(c) {
			return rule.message
		}
	}
	return RecommendNextSession
}
