package engine

import (
	"context"

	"task-planner-api/internal/models"
)

// ProgressBatchLimit is the most task ids a single GetProgressBatch
// call may carry. The aggregator chunks larger id lists itself.
const ProgressBatchLimit = 10

// TaskStore is the read contract the aggregator consumes for tasks.
// A missing task resolves to (nil, nil); errors are reserved for real
// store failures and are surfaced to the caller untouched.
type TaskStore interface {
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	GetTasksForUser(ctx context.Context, userID string) ([]models.Task, error)
	GetChildTasksForParent(ctx context.Context, parentID string) ([]models.Task, error)
}

// ProgressStore is the read contract for status records. GetProgress
// resolves a task that was never touched to (nil, nil). Batch reads
// accept at most ProgressBatchLimit ids per call and return a map that
// simply omits tasks without a record.
type ProgressStore interface {
	GetProgress(ctx context.Context, taskID string) (*models.ProgressRecord, error)
	GetProgressBatch(ctx context.Context, taskIDs []string) (map[string]models.ProgressRecord, error)
}
