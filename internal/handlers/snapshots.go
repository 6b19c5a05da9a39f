package handlers

import (
	"context"
	"time"

	"task-planner-api/internal/cache"
	"task-planner-api/internal/engine"
)

// Snapshots memoizes each user's aggregated task list between writes.
type Snapshots = cache.SnapshotCache[string, []engine.AggregatedTask]

// NewSnapshots builds the per-user snapshot cache with the given TTL.
func NewSnapshots(ttl time.Duration) *Snapshots {
	return cache.New[string, []engine.AggregatedTask](ttl)
}

// loadTasks returns a user's aggregated tasks, reusing the cached
// snapshot when fresh. Every write path invalidates the owner's entry,
// so staleness is bounded to the cache TTL.
func loadTasks(ctx context.Context, agg *engine.Aggregator, snapshots *Snapshots, userID string) ([]engine.AggregatedTask, error) {
	if tasks, ok := snapshots.Get(userID); ok {
		return tasks, nil
	}
	tasks, err := agg.AggregateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshots.Set(userID, tasks)
	return tasks, nil
}
