package models

import (
	"time"
)

// Status is the closed set of progress states a task can be in.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label returns the human-readable name shown in clients.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Not Started"
	}
}

// Color returns the display color associated with the status.
func (s Status) Color() string {
	switch s {
	case StatusInProgress:
		return "#3b82f6"
	case StatusCompleted:
		return "#22c55e"
	case StatusCancelled:
		return "#9ca3af"
	default:
		return "#f59e0b"
	}
}

// ProgressRecord tracks the current status of a single task. A task
// without a record reads as StatusNotStarted.
type ProgressRecord struct {
	TaskID    string    `json:"taskId" gorm:"primaryKey;column:task_id"`
	Status    Status    `json:"status" gorm:"not null;default:'not_started'"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ProgressRecord Model
func (ProgressRecord) TableName() string {
	return "progress_records"
}
