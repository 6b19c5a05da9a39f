package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-planner-api/internal/models"
)

// fakeStores is an in-memory TaskStore + ProgressStore that records
// the size of every progress batch call.
type fakeStores struct {
	mu         sync.Mutex
	tasks      map[string]models.Task
	progress   map[string]models.ProgressRecord
	batchSizes []int
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		tasks:    make(map[string]models.Task),
		progress: make(map[string]models.ProgressRecord),
	}
}

func (f *fakeStores) GetTaskByID(_ context.Context, id string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tasks[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeStores) GetTasksForUser(_ context.Context, userID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.tasks {
		if t.UserID == userID && !t.IsChild() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStores) GetChildTasksForParent(_ context.Context, parentID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.tasks {
		if t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStores) GetProgress(_ context.Context, taskID string) (*models.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.progress[taskID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStores) GetProgressBatch(_ context.Context, taskIDs []string) (map[string]models.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(taskIDs) > ProgressBatchLimit {
		return nil, fmt.Errorf("batch of %d exceeds limit", len(taskIDs))
	}
	f.batchSizes = append(f.batchSizes, len(taskIDs))
	out := make(map[string]models.ProgressRecord)
	for _, id := range taskIDs {
		if r, ok := f.progress[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeStores) addTask(id, parentID string, status models.Status) {
	f.tasks[id] = models.Task{ID: id, Name: id, UserID: "u-1", ParentID: parentID, CreatedAt: time.Now()}
	if status != "" {
		f.progress[id] = models.ProgressRecord{TaskID: id, Status: status, UpdatedAt: time.Now()}
	}
}

func TestAggregate_NotFoundIsNil(t *testing.T) {
	agg := NewAggregator(newFakeStores(), newFakeStores())
	out, err := agg.Aggregate(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestAggregate_MergesProgressAndChildren(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", models.StatusInProgress)
	f.addTask("c-1", "p-1", models.StatusCompleted)
	f.addTask("c-2", "p-1", "") // never touched => NotStarted

	agg := NewAggregator(f, f)
	out, err := agg.Aggregate(context.Background(), "p-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, models.StatusInProgress, out.Progress.Status)
	require.Equal(t, "In Progress", out.Progress.Label)
	require.Len(t, out.Children, 2)

	byID := make(map[string]AggregatedChildTask)
	for _, c := range out.Children {
		byID[c.ID] = c
	}
	require.Equal(t, models.StatusCompleted, byID["c-1"].Progress.Status)
	require.NotNil(t, byID["c-1"].Progress.CompletedAt)
	require.Equal(t, models.StatusNotStarted, byID["c-2"].Progress.Status)
	require.Nil(t, byID["c-2"].Progress.UpdatedAt)
}

func TestAggregate_NoChildrenMeansNoChildrenSlice(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", "")

	agg := NewAggregator(f, f)
	out, err := agg.Aggregate(context.Background(), "p-1")
	require.NoError(t, err)
	require.Empty(t, out.Children)
}

func TestAggregateBatch_DropsMissingSilently(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", models.StatusCompleted)

	agg := NewAggregator(f, f)
	out, err := agg.AggregateBatch(context.Background(), []string{"p-1", "missing"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "p-1", out[0].ID)
}

func TestAggregate_Idempotent(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", models.StatusInProgress)
	f.addTask("c-1", "p-1", models.StatusCompleted)

	agg := NewAggregator(f, f)
	first, err := agg.Aggregate(context.Background(), "p-1")
	require.NoError(t, err)
	second, err := agg.Aggregate(context.Background(), "p-1")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAggregate_ChunksProgressBatches(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", "")
	for i := 0; i < 23; i++ {
		f.addTask(fmt.Sprintf("c-%02d", i), "p-1", models.StatusCompleted)
	}

	agg := NewAggregator(f, f)
	out, err := agg.Aggregate(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, out.Children, 23)

	// 23 ids split as 10 + 10 + 3, never exceeding the adapter limit.
	require.Equal(t, []int{10, 10, 3}, f.batchSizes)
}

func TestAggregateForUser_OnlyTopLevel(t *testing.T) {
	f := newFakeStores()
	f.addTask("p-1", "", "")
	f.addTask("p-2", "", models.StatusCompleted)
	f.addTask("c-1", "p-1", "")

	agg := NewAggregator(f, f)
	out, err := agg.AggregateForUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, task := range out {
		require.False(t, task.IsChild())
	}
}
