package engine

import (
	"math"

	"task-planner-api/internal/models"
)

// RollUpPercentage derives a completion percentage in [0,100] for an
// aggregated task. A parent the user explicitly completed is 100
// regardless of its children; a non-completed task without children is
// 0; otherwise the percentage is the rounded share of completed
// children. Child status is taken as-is (children have no children).
func RollUpPercentage(t *AggregatedTask) int {
	if t.Progress.Status == models.StatusCompleted {
		return 100
	}
	if len(t.Children) == 0 {
		return 0
	}

	completed := 0
	for _, c := range t.Children {
		if c.Progress.Status == models.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(t.Children))))
}
