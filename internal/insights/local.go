package insights

import (
	"fmt"
	"sort"

	"task-planner-api/internal/engine"
)

// localInsights is the deterministic fallback strategy: simple
// arithmetic and argmax over the statistics bundle with templated
// sentences. Given the same bundle it always produces the same output.
func localInsights(data engine.TaskAnalysisData) *Insights {
	return &Insights{
		BestLevel:         bestLevel(data),
		TimeDistribution:  timeDistribution(data),
		Urgency:           urgency(data),
		ProductivityTrend: productivityTrend(data),
	}
}

// bestLevel picks the level with the highest completion rate, scanning
// levels in ascending order so the first maximum wins ties.
func bestLevel(data engine.TaskAnalysisData) BestLevelInsight {
	best := 0
	bestRate := -1.0
	for level := 1; level <= 5; level++ {
		rate, ok := data.CompletionRateByLevel[level]
		if ok && rate > bestRate {
			best = level
			bestRate = rate
		}
	}
	if best == 0 {
		return BestLevelInsight{Analysis: "No tasks yet, so there is no completion data to compare across priority levels."}
	}
	return BestLevelInsight{
		Level:          best,
		CompletionRate: bestRate,
		Analysis: fmt.Sprintf("Priority level %d tasks have your highest completion rate at %.1f%%.",
			best, bestRate),
	}
}

func timeDistribution(data engine.TaskAnalysisData) TimeDistributionInsight {
	if len(data.TasksByMonth) == 0 {
		return TimeDistributionInsight{Analysis: "No tasks have been created yet."}
	}

	months := make([]string, 0, len(data.TasksByMonth))
	for m := range data.TasksByMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	busiest, quietest := months[0], months[0]
	for _, m := range months[1:] {
		if data.TasksByMonth[m] > data.TasksByMonth[busiest] {
			busiest = m
		}
		if data.TasksByMonth[m] < data.TasksByMonth[quietest] {
			quietest = m
		}
	}
	return TimeDistributionInsight{
		BusiestMonth:  busiest,
		QuietestMonth: quietest,
		Analysis: fmt.Sprintf("Your busiest period was %s with %d tasks; %s was the quietest with %d.",
			busiest, data.TasksByMonth[busiest], quietest, data.TasksByMonth[quietest]),
	}
}

func urgency(data engine.TaskAnalysisData) UrgencyInsight {
	count := len(data.UrgentTasks)
	recs := []string{}
	if count > 0 {
		recs = append(recs, fmt.Sprintf("Start with %q, your most urgent task.", data.UrgentTasks[0].Name))
	}
	if count > 3 {
		recs = append(recs, "Consider rescheduling lower-priority deadlines to spread out the load.")
	}
	if data.OverdueTasks > 0 {
		recs = append(recs, fmt.Sprintf("Clear or reschedule your %d overdue task(s) first.", data.OverdueTasks))
	}

	analysis := "No deadlines are pressing right now."
	if count > 0 {
		analysis = fmt.Sprintf("%d task(s) have near-term deadlines and should be prioritized.", count)
	}
	return UrgencyInsight{
		UrgentCount:     count,
		Recommendations: recs,
		Analysis:        analysis,
	}
}

func productivityTrend(data engine.TaskAnalysisData) TrendInsight {
	trend := "steady"
	overall := 0.0
	if data.TotalTasks > 0 {
		overall = 100 * float64(data.CompletedTasks) / float64(data.TotalTasks)
	}
	switch {
	case overall >= 70:
		trend = "improving"
	case overall < 30 && data.TotalTasks > 0:
		trend = "declining"
	}

	strengths := []string{}
	improvements := []string{}
	if best := bestLevel(data); best.Level != 0 && best.CompletionRate >= 50 {
		strengths = append(strengths, fmt.Sprintf("Strong follow-through on level %d tasks.", best.Level))
	}
	if data.OverdueTasks > 0 {
		improvements = append(improvements, fmt.Sprintf("%d task(s) are past their deadline.", data.OverdueTasks))
	}
	if overall < 50 && data.TotalTasks > 0 {
		improvements = append(improvements, "Overall completion rate is below half; consider creating fewer, smaller tasks.")
	}

	return TrendInsight{
		Trend:        trend,
		Strengths:    strengths,
		Improvements: improvements,
		Analysis: fmt.Sprintf("You have completed %d of %d tasks (%.0f%%).",
			data.CompletedTasks, data.TotalTasks, overall),
	}
}
