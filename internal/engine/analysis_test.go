package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-planner-api/internal/models"
)

func TestBuildAnalysis(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	completedAt := created.AddDate(0, 0, 4)
	pastDeadline := now.AddDate(0, 0, -2)
	nearDeadline := now.AddDate(0, 0, 3)

	tasks := []AggregatedTask{
		{
			Task: models.Task{ID: "a", Name: "done", Level: 1, CreatedAt: created},
			Progress: AggregatedProgress{
				Status:      models.StatusCompleted,
				CompletedAt: &completedAt,
			},
		},
		{
			Task:     models.Task{ID: "b", Name: "late", Level: 1, EndTime: &pastDeadline, CreatedAt: created},
			Progress: AggregatedProgress{Status: models.StatusInProgress},
		},
		{
			Task:     models.Task{ID: "c", Name: "urgent", Level: 2, EndTime: &nearDeadline, CreatedAt: time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)},
			Progress: AggregatedProgress{Status: models.StatusNotStarted},
		},
	}

	data := BuildAnalysis(tasks, now)

	require.Equal(t, 3, data.TotalTasks)
	require.Equal(t, 1, data.CompletedTasks)
	require.Equal(t, 1, data.OverdueTasks)

	require.Equal(t, 2, data.TasksByLevel[1])
	require.Equal(t, 1, data.TasksByLevel[2])
	require.InDelta(t, 50.0, data.CompletionRateByLevel[1], 1e-9)
	require.InDelta(t, 0.0, data.CompletionRateByLevel[2], 1e-9)

	require.Equal(t, 2, data.TasksByMonth["2026-08"])
	require.Equal(t, 1, data.TasksByMonth["2026-07"])

	// Only "urgent" qualifies: "late" is overdue, "done" is completed.
	require.Len(t, data.UrgentTasks, 1)
	require.Equal(t, "c", data.UrgentTasks[0].ID)
	require.Equal(t, 3, data.UrgentTasks[0].DaysRemaining)
	require.Greater(t, data.UrgentTasks[0].Score, 0.0)

	require.InDelta(t, 4.0, data.AvgCompletionDays[1], 1e-9)
}

func TestBuildAnalysis_Empty(t *testing.T) {
	data := BuildAnalysis(nil, time.Now())
	require.Zero(t, data.TotalTasks)
	require.Empty(t, data.UrgentTasks)
	require.Empty(t, data.CompletionRateByLevel)
}
