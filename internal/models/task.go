package models

import (
	"time"
)

// Priority levels span 1 (most urgent) through 5 (least urgent).
// A zero Level means the user never set one; consumers that need a
// number treat it as the least-urgent default.
const (
	LevelMin     = 1
	LevelMax     = 5
	LevelDefault = 5
)

// Task represents a user-created work item. A top-level task has an
// empty ParentID; a subtask references its parent and never has
// children of its own (tree depth is exactly 2).
type Task struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Detail    string     `json:"detail"`
	Level     int        `json:"level"`
	StartTime *time.Time `json:"startTime" gorm:"column:start_time"`
	EndTime   *time.Time `json:"endTime" gorm:"column:end_time"`
	ParentID  string     `json:"parentId,omitempty" gorm:"column:parent_id;index"`
	UserID    string     `json:"-" gorm:"column:user_id;index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"-"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// IsChild reports whether the task is a subtask of another task.
func (t *Task) IsChild() bool {
	return t.ParentID != ""
}

// EffectiveLevel returns the priority level, substituting the
// least-urgent default when the user never set one.
func (t *Task) EffectiveLevel() int {
	if t.Level < LevelMin || t.Level > LevelMax {
		return LevelDefault
	}
	return t.Level
}

// ValidLevel reports whether a level value is acceptable on input:
// either unset (0) or inside [1,5].
func ValidLevel(level int) bool {
	return level == 0 || (level >= LevelMin && level <= LevelMax)
}
