package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-planner-api/internal/engine"
	"task-planner-api/internal/models"
	"task-planner-api/internal/realtime"
	"task-planner-api/internal/store"
)

// TaskHandler serves task CRUD and status updates.
type TaskHandler struct {
	store     *store.Store
	agg       *engine.Aggregator
	snapshots *Snapshots
	hub       *realtime.Hub
	log       *zap.SugaredLogger
}

func NewTaskHandler(s *store.Store, agg *engine.Aggregator, snapshots *Snapshots, hub *realtime.Hub, log *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{store: s, agg: agg, snapshots: snapshots, hub: hub, log: log}
}

// CreateTaskRequest represents the request payload for creating a task
// or subtask. Times are RFC3339.
type CreateTaskRequest struct {
	Name      string     `json:"name" binding:"required"`
	Detail    string     `json:"detail"`
	Level     int        `json:"level"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Name      *string    `json:"name"`
	Detail    *string    `json:"detail"`
	Level     *int       `json:"level"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// taskView is the wire shape for an aggregated task plus its derived
// display fields.
type taskView struct {
	engine.AggregatedTask
	Completion int    `json:"completion"`
	Overdue    bool   `json:"overdue"`
	Category   string `json:"category"`
}

func newTaskView(t engine.AggregatedTask, now time.Time) taskView {
	return taskView{
		AggregatedTask: t,
		Completion:     engine.RollUpPercentage(&t),
		Overdue:        engine.IsOverdue(t.EndTime, t.Progress.Status, now),
		Category:       engine.InferCategory(t.Name, t.Detail),
	}
}

// validateTaskFields rejects malformed input before any write: empty
// name, level outside [1,5], or a time window ending before it starts.
// The window check applies to subtask creation too.
func validateTaskFields(name string, level int, start, end *time.Time) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "Task name must not be empty", false
	}
	if !models.ValidLevel(level) {
		return "Level must be between 1 (most urgent) and 5 (least urgent)", false
	}
	if start != nil && end != nil && end.Before(*start) {
		return "End time must not be before start time", false
	}
	return "", true
}

/*
*
GetTasks handles GET /api/tasks
Returns the authenticated user's top-level tasks, aggregated with
progress, children, and derived analytics fields.
*/
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	tasks, err := loadTasks(c.Request.Context(), h.agg, h.snapshots, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	now := time.Now()
	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = newTaskView(t, now)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": views,
		"count": len(views),
	})
}

// GetTaskByID handles GET /api/tasks/:id
// Returns a single aggregated task owned by the authenticated user.
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	task, err := h.agg.Aggregate(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	// A concurrently-deleted task and a task owned by someone else look
	// the same from outside.
	if task == nil || task.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, newTaskView(*task, time.Now()))
}

/*
*
CreateTask handles POST /api/tasks
Creates a new top-level task for the authenticated user
*/
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := validateTaskFields(req.Name, req.Level, req.StartTime, req.EndTime); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	task := models.Task{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Detail:    req.Detail,
		Level:     req.Level,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserID:    userID,
	}
	if err := h.store.CreateTask(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	h.snapshots.Invalidate(userID)
	h.hub.Publish(realtime.Event{Type: realtime.EventTaskCreated, TaskID: task.ID, UserID: userID})

	c.JSON(http.StatusCreated, task)
}

// CreateSubtask handles POST /api/tasks/:id/subtasks
// Adds a child task under a parent owned by the authenticated user.
// Subtasks cannot have subtasks of their own.
func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	parentID := c.Param("id")
	if parentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	parent, err := h.store.GetTaskByID(c.Request.Context(), parentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parent task"})
		return
	}
	if parent == nil || parent.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent task not found"})
		return
	}
	if parent.IsChild() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtasks cannot have their own subtasks"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := validateTaskFields(req.Name, req.Level, req.StartTime, req.EndTime); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	task := models.Task{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Detail:    req.Detail,
		Level:     req.Level,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		ParentID:  parent.ID,
		UserID:    userID,
	}
	if err := h.store.CreateTask(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subtask"})
		return
	}

	h.snapshots.Invalidate(userID)
	h.hub.Publish(realtime.Event{Type: realtime.EventTaskUpdated, TaskID: parent.ID, UserID: userID})

	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
// Updates a task owned by the authenticated user
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	task, err := h.store.GetTaskByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if task == nil || task.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Apply provided fields, then validate the final shape so a
	// partial update can never leave an inverted time window.
	if req.Name != nil {
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.Detail != nil {
		task.Detail = *req.Detail
	}
	if req.Level != nil {
		task.Level = *req.Level
	}
	if req.StartTime != nil {
		task.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		task.EndTime = req.EndTime
	}
	if msg, ok := validateTaskFields(task.Name, task.Level, task.StartTime, task.EndTime); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.store.UpdateTask(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	h.snapshots.Invalidate(userID)
	h.hub.Publish(realtime.Event{Type: realtime.EventTaskUpdated, TaskID: task.ID, UserID: userID})

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Upserts the progress record of a task owned by the authenticated user
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	task, err := h.store.GetTaskByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if task == nil || task.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if err := h.store.SetProgress(c.Request.Context(), task.ID, req.Status, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.snapshots.Invalidate(userID)
	h.hub.Publish(realtime.Event{Type: realtime.EventTaskStatusChanged, TaskID: task.ID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{
		"id":     task.ID,
		"status": req.Status,
		"label":  req.Status.Label(),
		"color":  req.Status.Color(),
	})
}

// DeleteTask handles DELETE /api/tasks/:id
// Deletes a task, its subtasks, and their progress records together
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	task, err := h.store.GetTaskByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if task == nil || task.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if err := h.store.DeleteTaskCascade(c.Request.Context(), task.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	h.snapshots.Invalidate(userID)
	h.hub.Publish(realtime.Event{Type: realtime.EventTaskDeleted, TaskID: taskID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}
