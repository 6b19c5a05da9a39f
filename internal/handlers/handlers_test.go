package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-planner-api/internal/auth"
	"task-planner-api/internal/config"
	"task-planner-api/internal/engine"
	"task-planner-api/internal/insights"
	"task-planner-api/internal/middleware"
	"task-planner-api/internal/realtime"
	"task-planner-api/internal/store"
	"task-planner-api/internal/testutil"
)

// testEnv wires the full handler stack onto an in-memory database.
type testEnv struct {
	router *gin.Engine
	store  *store.Store
	issuer *auth.TokenIssuer
	token  string // valid token for user u-1
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	st := store.New(db)
	log := zap.NewNop().Sugar()
	agg := engine.NewAggregator(st, st)
	snapshots := NewSnapshots(time.Minute)
	hub := realtime.NewHub()
	issuer := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "task-planner-api",
		Audience:  "task-planner-clients",
		TokenTTL:  time.Hour,
	})
	generator := insights.New(insights.Config{Mode: insights.ModeLocal}, log)

	authHandler := NewAuthHandler(st, issuer, log)
	taskHandler := NewTaskHandler(st, agg, snapshots, hub, log)
	analyticsHandler := NewAnalyticsHandler(agg, snapshots, generator, time.Monday, log)

	r := gin.New()
	r.POST("/api/register", authHandler.Register)
	r.POST("/api/login", authHandler.Login)

	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(issuer))
	protected.GET("/tasks", taskHandler.GetTasks)
	protected.GET("/tasks/:id", taskHandler.GetTaskByID)
	protected.POST("/tasks", taskHandler.CreateTask)
	protected.POST("/tasks/:id/subtasks", taskHandler.CreateSubtask)
	protected.PUT("/tasks/:id", taskHandler.UpdateTask)
	protected.PATCH("/tasks/:id/status", taskHandler.UpdateTaskStatus)
	protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
	protected.GET("/analytics/summary", analyticsHandler.Summary)
	protected.GET("/analytics/insights", analyticsHandler.Insights)
	protected.GET("/analytics/export", analyticsHandler.Export)

	token, err := issuer.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	return &testEnv{router: r, store: st, issuer: issuer, token: token}
}

// do issues an authenticated JSON request against the test router.
func (e *testEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createTask is a shortcut that POSTs a task and returns its id.
func (e *testEnv) createTask(t *testing.T, payload map[string]any) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/tasks", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[map[string]any](t, w)
	return created["id"].(string)
}

// createSubtask adds a child under parentID and returns its id.
func (e *testEnv) createSubtask(t *testing.T, parentID string, payload map[string]any) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/tasks/"+parentID+"/subtasks", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[map[string]any](t, w)
	return created["id"].(string)
}

// setStatus patches a task's status.
func (e *testEnv) setStatus(t *testing.T, taskID, status string) {
	t.Helper()
	w := e.do(t, http.MethodPatch, "/api/tasks/"+taskID+"/status", map[string]string{"status": status})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
