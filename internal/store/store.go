// Package store implements the engine's task and progress adapter
// contracts on top of gorm, plus the write operations the HTTP layer
// needs. Not-found is translated to nil results at this seam so the
// engine never sees gorm errors.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-planner-api/internal/engine"
	"task-planner-api/internal/models"
)

// Store is the gorm-backed implementation of the engine's adapters.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ engine.TaskStore = (*Store)(nil)
var _ engine.ProgressStore = (*Store)(nil)

// GetTaskByID fetches any task (parent or child) by id, or nil when it
// does not exist.
func (s *Store) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasksForUser returns a user's top-level tasks, newest first.
func (s *Store) GetTasksForUser(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND parent_id = ''", userID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// GetChildTasksForParent returns a parent's subtasks in creation order.
func (s *Store) GetChildTasksForParent(ctx context.Context, parentID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// GetProgress fetches a task's status record, or nil when the task was
// never touched.
func (s *Store) GetProgress(ctx context.Context, taskID string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetProgressBatch fetches status records for up to
// engine.ProgressBatchLimit tasks; ids without a record are simply
// absent from the result map.
func (s *Store) GetProgressBatch(ctx context.Context, taskIDs []string) (map[string]models.ProgressRecord, error) {
	if len(taskIDs) > engine.ProgressBatchLimit {
		return nil, fmt.Errorf("progress batch of %d exceeds limit of %d", len(taskIDs), engine.ProgressBatchLimit)
	}

	var recs []models.ProgressRecord
	if err := s.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make(map[string]models.ProgressRecord, len(recs))
	for _, r := range recs {
		out[r.TaskID] = r
	}
	return out, nil
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

// UpdateTask persists every field of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

// DeleteTaskCascade removes a task together with its children and all
// their progress records in one transaction, so a failed delete never
// leaves orphans.
func (s *Store) DeleteTaskCascade(ctx context.Context, taskID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var childIDs []string
		if err := tx.Model(&models.Task{}).
			Where("parent_id = ?", taskID).
			Pluck("id", &childIDs).Error; err != nil {
			return err
		}

		ids := append(childIDs, taskID)
		if err := tx.Where("task_id IN ?", ids).Delete(&models.ProgressRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", taskID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", taskID).Delete(&models.Task{}).Error
	})
}

// SetProgress upserts a task's status record.
func (s *Store) SetProgress(ctx context.Context, taskID string, status models.Status, at time.Time) error {
	rec := models.ProgressRecord{TaskID: taskID, Status: status, UpdatedAt: at}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&rec).Error
}

// CreateUser inserts a new user account.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUserByUsername fetches a user by username, or nil when unknown.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
