package services

import (
	"fmt"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// FactorBreakdown explains how one factor contributed to the base score.
type FactorBreakdown struct {
	Factor        Factor  `json:"factor"`
	RawValue      float64 `json:"rawValue"`
	Weight        float64 `json:"weight"`
	WeightedValue float64 `json:"weightedValue"`
	Contribution  float64 `json:"contribution"` // percent of the base score
	Description   string  `json:"description"`
}

// FactorExplanation is the detailed, every-factor view of a score.
type FactorExplanation struct {
	TotalScore     float64           `json:"totalScore"`
	BaseScore      float64           `json:"baseScore"`
	Factors        []FactorBreakdown `json:"factors"`
	Weights        Weights           `json:"weights"`
	Multipliers    Multipliers       `json:"multipliers"`
	Reasons        []string          `json:"reasons"`
	Recommendation string            `json:"recommendation"`
	UrgencyLevel   UrgencyLevel      `json:"urgencyLevel"`
}

// Explain scores a task and returns every factor with its share of the base score.
func (e *PriorityEngine) Explain(t task.Task, now time.Time, uc task.UserContext, mlAdjustment float64) FactorExplanation {
	result := e.Score(t, now, uc, mlAdjustment)

	factors := make([]FactorBreakdown, 0, len(factorOrder))
	for _, f := range e.rankFactors(result.Components) {
		contribution := 0.0
		if result.BaseScore > 0 {
			contribution = f.Weighted / result.BaseScore * 100
		}
		factors = append(factors, FactorBreakdown{
			Factor:        f.Factor,
			RawValue:      f.Value,
			Weight:        e.config.Weights.For(f.Factor),
			WeightedValue: f.Weighted,
			Contribution:  contribution,
			Description:   describeFactor(f.Factor, t, now),
		})
	}

	return FactorExplanation{
		TotalScore:     result.FinalScore,
		BaseScore:      result.BaseScore,
		Factors:        factors,
		Weights:        e.config.Weights,
		Multipliers:    result.Multipliers,
		Reasons:        result.Explanation.AllReasons,
		Recommendation: result.Explanation.Recommendation,
		UrgencyLevel:   ClassifyUrgency(result.Components.Urgency, t.IsOverdue(now)),
	}
}

func describeFactor(f Factor, t task.Task, now time.Time) string {
	switch f {
	case FactorUrgency:
		hours, ok := t.HoursUntilDue(now)
		switch {
		case !ok:
			return "no due date"
		case hours <= 0:
			return "past due"
		default:
			return fmt.Sprintf("due in %.0f hours", hours)
		}
	case FactorImportance:
		if t.Importance != nil {
			return "importance supplied"
		}
		return "importance inferred from category and priority"
	case FactorTiming:
		if _, ok := t.PreferredStart(); ok {
			return "compared with preferred start " + t.StartTime
		}
		return "time of day heuristics"
	case FactorEffort:
		return fmt.Sprintf("about %.0f minutes, complexity %.0f", EstimateMinutes(t), Complexity(t))
	case FactorHistory:
		return fmt.Sprintf("postponed %d times", t.Postponements())
	default:
		return ""
	}
}
