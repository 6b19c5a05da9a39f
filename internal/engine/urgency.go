package engine

import (
	"sort"
	"time"

	"task-planner-api/internal/models"
)

// Urgency weighting: deadline proximity dominates, priority level
// nudges the ranking.
const (
	deadlineWeight = 0.7
	levelWeight    = 0.3
)

// DaysUntil returns whole days from now until a deadline, truncated
// toward zero. A deadline later today yields 0.
func DaysUntil(deadline, now time.Time) int {
	return int(deadline.Sub(now).Hours() / 24)
}

// UrgencyScore ranks an incomplete, non-overdue task with a deadline
// in [0,1]. Deadline proximity contributes max(0, 10-days)/10 at
// weight 0.7; priority contributes (6-level)/5 at weight 0.3, so a
// level-1 task scores higher than a level-5 one. Tasks that are
// completed, overdue, or deadline-less score 0 and are excluded from
// urgency-ranked lists.
func UrgencyScore(t *AggregatedTask, now time.Time) float64 {
	if t.EndTime == nil {
		return 0
	}
	if t.Progress.Status == models.StatusCompleted {
		return 0
	}
	if IsOverdue(t.EndTime, t.Progress.Status, now) {
		return 0
	}

	days := DaysUntil(*t.EndTime, now)
	proximity := float64(10-days) / 10
	if proximity < 0 {
		proximity = 0
	}
	if proximity > 1 {
		proximity = 1
	}
	priority := float64(6-t.EffectiveLevel()) / 5

	return proximity*deadlineWeight + priority*levelWeight
}

// RankByUrgency returns the tasks with a positive urgency score,
// highest first. Ties keep input order.
func RankByUrgency(tasks []AggregatedTask, now time.Time) []AggregatedTask {
	type scored struct {
		task  AggregatedTask
		score float64
	}
	ranked := make([]scored, 0, len(tasks))
	for i := range tasks {
		if s := UrgencyScore(&tasks[i], now); s > 0 {
			ranked = append(ranked, scored{task: tasks[i], score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]AggregatedTask, len(ranked))
	for i, r := range ranked {
		out[i] = r.task
	}
	return out
}

// OverdueTasks returns every overdue task sorted by deadline
// ascending. Overdue tasks are surfaced here instead of the urgency
// ranking.
func OverdueTasks(tasks []AggregatedTask, now time.Time) []AggregatedTask {
	out := make([]AggregatedTask, 0)
	for i := range tasks {
		if IsOverdue(tasks[i].EndTime, tasks[i].Progress.Status, now) {
			out = append(out, tasks[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndTime.Before(*out[j].EndTime)
	})
	return out
}
