package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"task-planner-api/internal/models"
)

// Aggregator joins tasks, their subtasks, and progress records into
// AggregatedTask views. All operations are read-only.
type Aggregator struct {
	tasks    TaskStore
	progress ProgressStore
}

// NewAggregator wires an aggregator onto its store adapters.
func NewAggregator(tasks TaskStore, progress ProgressStore) *Aggregator {
	return &Aggregator{tasks: tasks, progress: progress}
}

// Aggregate resolves a single task into its aggregated view. A task
// that does not exist (e.g. deleted concurrently) resolves to
// (nil, nil); callers treat that as a normal empty case, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, taskID string) (*AggregatedTask, error) {
	task, err := a.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return a.build(ctx, *task)
}

// AggregateBatch resolves each id independently and returns only the
// tasks that still exist, in input order. A missing id never fails the
// batch. Items are fetched concurrently; a store failure on any item
// fails the whole call.
func (a *Aggregator) AggregateBatch(ctx context.Context, taskIDs []string) ([]AggregatedTask, error) {
	results := make([]*AggregatedTask, len(taskIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range taskIDs {
		g.Go(func() error {
			agg, err := a.Aggregate(gctx, id)
			if err != nil {
				return err
			}
			results[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]AggregatedTask, 0, len(taskIDs))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// AggregateForUser resolves every top-level task owned by a user.
func (a *Aggregator) AggregateForUser(ctx context.Context, userID string) ([]AggregatedTask, error) {
	tasks, err := a.tasks.GetTasksForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]*AggregatedTask, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			agg, err := a.build(gctx, task)
			if err != nil {
				return err
			}
			results[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]AggregatedTask, 0, len(tasks))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// build merges one already-fetched task with its progress and its
// enriched children. This is the single seam between the store shape
// and the aggregated shape.
func (a *Aggregator) build(ctx context.Context, task models.Task) (*AggregatedTask, error) {
	rec, err := a.progress.GetProgress(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	agg := &AggregatedTask{
		Task:     task,
		Progress: resolveProgress(rec),
	}

	children, err := a.tasks.GetChildTasksForParent(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return agg, nil
	}

	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	childProgress, err := a.progressByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	agg.Children = make([]AggregatedChildTask, len(children))
	for i, c := range children {
		var rec *models.ProgressRecord
		if r, ok := childProgress[c.ID]; ok {
			rec = &r
		}
		agg.Children[i] = AggregatedChildTask{
			Task:     c,
			Progress: resolveProgress(rec),
		}
	}
	return agg, nil
}

// progressByID batch-fetches progress for a set of task ids, chunking
// to the adapter's per-call limit and merging the partial maps.
func (a *Aggregator) progressByID(ctx context.Context, taskIDs []string) (map[string]models.ProgressRecord, error) {
	merged := make(map[string]models.ProgressRecord, len(taskIDs))
	for start := 0; start < len(taskIDs); start += ProgressBatchLimit {
		end := start + ProgressBatchLimit
		if end > len(taskIDs) {
			end = len(taskIDs)
		}
		part, err := a.progress.GetProgressBatch(ctx, taskIDs[start:end])
		if err != nil {
			return nil, err
		}
		for id, rec := range part {
			merged[id] = rec
		}
	}
	return merged, nil
}
