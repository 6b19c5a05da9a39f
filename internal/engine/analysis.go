package engine

import (
	"math"
	"time"

	"task-planner-api/internal/models"
)

// UrgentTask is an incomplete task with a near-term deadline, as
// surfaced in the analysis bundle.
type UrgentTask struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	DaysRemaining int     `json:"daysRemaining"`
	Score         float64 `json:"score"`
}

// TaskAnalysisData is the statistics bundle handed to the narrative
// insight generator and the analytics summary. All maps key on the
// effective priority level (1-5) or on a "YYYY-MM" month.
type TaskAnalysisData struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`

	TasksByLevel          map[int]int     `json:"tasksByLevel"`
	CompletionRateByLevel map[int]float64 `json:"completionRateByLevel"`
	TasksByMonth          map[string]int  `json:"tasksByMonth"`

	UrgentTasks []UrgentTask `json:"urgentTasks"`

	// AvgCompletionDays holds, per level, the mean days from creation
	// to completion across completed tasks that carry a completion
	// timestamp.
	AvgCompletionDays map[int]float64 `json:"avgCompletionDays"`
}

// BuildAnalysis derives the full statistics bundle from an aggregated
// snapshot. Deterministic for a given snapshot and now.
func BuildAnalysis(tasks []AggregatedTask, now time.Time) TaskAnalysisData {
	data := TaskAnalysisData{
		TasksByLevel:          make(map[int]int),
		CompletionRateByLevel: make(map[int]float64),
		TasksByMonth:          make(map[string]int),
		AvgCompletionDays:     make(map[int]float64),
		UrgentTasks:           []UrgentTask{},
	}

	completedByLevel := make(map[int]int)
	durationSumByLevel := make(map[int]float64)
	durationCountByLevel := make(map[int]int)

	for i := range tasks {
		t := &tasks[i]
		level := t.EffectiveLevel()

		data.TotalTasks++
		data.TasksByLevel[level]++
		data.TasksByMonth[t.CreatedAt.Format("2006-01")]++

		if t.Progress.Status == models.StatusCompleted {
			data.CompletedTasks++
			completedByLevel[level]++
			if t.Progress.CompletedAt != nil {
				durationSumByLevel[level] += t.Progress.CompletedAt.Sub(t.CreatedAt).Hours() / 24
				durationCountByLevel[level]++
			}
		}
		if IsOverdue(t.EndTime, t.Progress.Status, now) {
			data.OverdueTasks++
		}
	}

	for level, total := range data.TasksByLevel {
		rate := 100 * float64(completedByLevel[level]) / float64(total)
		data.CompletionRateByLevel[level] = math.Round(rate*10) / 10
	}
	for level, count := range durationCountByLevel {
		avg := durationSumByLevel[level] / float64(count)
		data.AvgCompletionDays[level] = math.Round(avg*10) / 10
	}

	for _, t := range RankByUrgency(tasks, now) {
		data.UrgentTasks = append(data.UrgentTasks, UrgentTask{
			ID:            t.ID,
			Name:          t.Name,
			Level:         t.EffectiveLevel(),
			DaysRemaining: DaysUntil(*t.EndTime, now),
			Score:         UrgencyScore(&t, now),
		})
	}

	return data
}
