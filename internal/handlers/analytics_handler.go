package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"task-planner-api/internal/engine"
	"task-planner-api/internal/insights"
)

// AnalyticsHandler serves the derived statistics endpoints: window
// summaries, narrative insights, and the spreadsheet export.
type AnalyticsHandler struct {
	agg       *engine.Aggregator
	snapshots *Snapshots
	generator *insights.Generator
	weekStart time.Weekday
	log       *zap.SugaredLogger
}

func NewAnalyticsHandler(agg *engine.Aggregator, snapshots *Snapshots, generator *insights.Generator, weekStart time.Weekday, log *zap.SugaredLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		agg:       agg,
		snapshots: snapshots,
		generator: generator,
		weekStart: weekStart,
		log:       log,
	}
}

// Summary handles GET /api/analytics/summary
// Returns window statistics and the full analysis bundle for the
// authenticated user's tasks.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
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
	currentMonth := engine.CurrentMonth(tasks, now)
	previousMonth := engine.PreviousMonth(tasks, now)
	analysis := engine.BuildAnalysis(tasks, now)

	categories := make(map[string]int)
	for i := range tasks {
		categories[engine.InferCategory(tasks[i].Name, tasks[i].Detail)]++
	}

	overdueViews := make([]taskView, 0)
	for _, t := range engine.OverdueTasks(tasks, now) {
		overdueViews = append(overdueViews, newTaskView(t, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"lastSevenDays":   engine.LastSevenDays(tasks, now),
		"currentWeek":     engine.CurrentWeek(tasks, now, h.weekStart),
		"currentMonth":    currentMonth,
		"previousMonth":   previousMonth,
		"monthGrowthRate": engine.GrowthRate(currentMonth, previousMonth),
		"rollingYear":     engine.RollingYear(tasks, now),
		"categories":      categories,
		"overdueTasks":    overdueViews,
		"analysis":        analysis,
	})
}

// Insights handles GET /api/analytics/insights
// Returns the four-section narrative insight bundle.
func (h *AnalyticsHandler) Insights(c *gin.Context) {
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

	analysis := engine.BuildAnalysis(tasks, time.Now())
	bundle, err := h.generator.Generate(c.Request.Context(), analysis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Export handles GET /api/analytics/export
// Streams an xlsx workbook with a summary sheet and a per-task sheet.
func (h *AnalyticsHandler) Export(c *gin.Context) {
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

	f, err := buildWorkbook(tasks, time.Now(), h.weekStart)
	if err != nil {
		h.log.Errorw("failed to build export workbook", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="task-analytics.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		h.log.Errorw("failed to stream export workbook", "error", err)
	}
}

func buildWorkbook(tasks []engine.AggregatedTask, now time.Time, weekStart time.Weekday) (*excelize.File, error) {
	f := excelize.NewFile()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}

	currentMonth := engine.CurrentMonth(tasks, now)
	previousMonth := engine.PreviousMonth(tasks, now)
	rows := [][]any{
		{"Window", "Total", "Completed", "Incomplete", "Percentage"},
		{"Current week", nil, nil, nil, nil},
		{"Current month", nil, nil, nil, nil},
		{"Previous month", nil, nil, nil, nil},
		{"Rolling year", nil, nil, nil, nil},
	}
	windows := []engine.WindowStats{
		engine.CurrentWeek(tasks, now, weekStart),
		currentMonth,
		previousMonth,
		engine.RollingYear(tasks, now),
	}
	for i, w := range windows {
		rows[i+1][1] = w.Total
		rows[i+1][2] = w.Completed
		rows[i+1][3] = w.Incomplete
		rows[i+1][4] = w.Percentage
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, err
		}
	}
	growthCell := fmt.Sprintf("A%d", len(rows)+2)
	_ = f.SetSheetRow(summary, growthCell, &[]any{
		"Month-over-month growth (%)", engine.GrowthRate(currentMonth, previousMonth),
	})

	const sheet = "Tasks"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	header := []any{"Name", "Level", "Status", "Created", "Due", "Completion %", "Category", "Overdue"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range tasks {
		t := &tasks[i]
		due := ""
		if t.EndTime != nil {
			due = t.EndTime.Format("2006-01-02")
		}
		row := []any{
			t.Name,
			t.EffectiveLevel(),
			t.Progress.Status.Label(),
			t.CreatedAt.Format("2006-01-02"),
			due,
			engine.RollUpPercentage(t),
			engine.InferCategory(t.Name, t.Detail),
			engine.IsOverdue(t.EndTime, t.Progress.Status, now),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
