package services

// Summary aggregates a ranked task list.
type Summary struct {
	TaskCount    int     `json:"taskCount"`
	AverageScore float64 `json:"averageScore"`
	UrgentCount  int     `json:"urgentCount"`
	OverdueCount int     `json:"overdueCount"`
	FocusCount   int     `json:"focusCount"`
	TopTaskID    string  `json:"topTaskId,omitempty"`
	TopTaskTitle string  `json:"topTaskTitle,omitempty"`
	TopScore     float64 `json:"topScore"`
}

// Summarize computes aggregate figures. The first entry is treated as the top task.
func Summarize(ranked []RankedTask) Summary {
	s := Summary{TaskCount: len(ranked)}
	if len(ranked) == 0 {
		return s
	}

	total := 0.0
	for _, r := range ranked {
		total += r.AIScore
		if r.AIInsights.IsUrgent {
			s.UrgentCount++
		}
		if r.AIInsights.IsOverdue {
			s.OverdueCount++
		}
		if r.AIInsights.RequiresFocus {
			s.FocusCount++
		}
	}
	s.AverageScore = total / float64(len(ranked))

	top := ranked[0]
	s.TopTaskID = top.ID
	s.TopTaskTitle = top.Title
	s.TopScore = top.AIScore
	return s
}
