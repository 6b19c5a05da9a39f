package engine

import (
	"time"

	"task-planner-api/internal/models"
)

// AggregatedProgress is a task's resolved status joined with its
// display metadata. A task with no stored record resolves to
// NotStarted with no timestamps. CompletedAt is derived from the
// record's update time and only set for completed tasks.
type AggregatedProgress struct {
	Status      models.Status `json:"status"`
	Label       string        `json:"label"`
	Color       string        `json:"color"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// AggregatedChildTask is a subtask enriched with its resolved progress.
type AggregatedChildTask struct {
	models.Task
	Progress AggregatedProgress `json:"progress"`
}

// AggregatedTask is the engine's output shape: a top-level task, its
// resolved progress, and its enriched children held by value. It is
// rebuilt from the stores on every read and never persisted.
type AggregatedTask struct {
	models.Task
	Progress AggregatedProgress    `json:"progress"`
	Children []AggregatedChildTask `json:"children,omitempty"`
}

// resolveProgress turns an optional stored record into the aggregated
// view, treating absence as NotStarted.
func resolveProgress(rec *models.ProgressRecord) AggregatedProgress {
	if rec == nil {
		status := models.StatusNotStarted
		return AggregatedProgress{
			Status: status,
			Label:  status.Label(),
			Color:  status.Color(),
		}
	}

	updated := rec.UpdatedAt
	agg := AggregatedProgress{
		Status:    rec.Status,
		Label:     rec.Status.Label(),
		Color:     rec.Status.Color(),
		UpdatedAt: &updated,
	}
	if rec.Status == models.StatusCompleted {
		completed := rec.UpdatedAt
		agg.CompletedAt = &completed
	}
	return agg
}
