package engine

import (
	"math"
	"time"

	"task-planner-api/internal/models"
)

// WindowStats aggregates completion counts for tasks created inside a
// time window. Completed + Incomplete always equals Total.
type WindowStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Percentage int `json:"percentage"`
}

// ComputeWindowStats counts tasks whose creation timestamp falls
// inside [start, end] (inclusive on both ends).
func ComputeWindowStats(tasks []AggregatedTask, start, end time.Time) WindowStats {
	var stats WindowStats
	for i := range tasks {
		created := tasks[i].CreatedAt
		if created.Before(start) || created.After(end) {
			continue
		}
		stats.Total++
		if tasks[i].Progress.Status == models.StatusCompleted {
			stats.Completed++
		}
	}
	stats.Incomplete = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}
	return stats
}

// GrowthRate compares two window percentages, current against
// previous, as a percent change. A zero previous percentage yields 0
// rather than a division by zero.
func GrowthRate(current, previous WindowStats) float64 {
	if previous.Percentage <= 0 {
		return 0
	}
	return float64(current.Percentage-previous.Percentage) / float64(previous.Percentage) * 100
}

// DayBucket is one day of the last-7-days breakdown.
type DayBucket struct {
	Date  string      `json:"date"`
	Stats WindowStats `json:"stats"`
}

// LastSevenDays buckets the trailing week into day-granularity
// windows, most recent day first.
func LastSevenDays(tasks []AggregatedTask, now time.Time) []DayBucket {
	buckets := make([]DayBucket, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := now.AddDate(0, 0, -offset)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
		buckets = append(buckets, DayBucket{
			Date:  start.Format("2006-01-02"),
			Stats: ComputeWindowStats(tasks, start, end),
		})
	}
	return buckets
}

// CurrentWeek computes stats for the week containing now, starting on
// the configured weekday.
func CurrentWeek(tasks []AggregatedTask, now time.Time, weekStart time.Weekday) WindowStats {
	daysBack := (int(now.Weekday()) - int(weekStart) + 7) % 7
	day := now.AddDate(0, 0, -daysBack)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return ComputeWindowStats(tasks, start, end)
}

// CurrentMonth computes stats for the calendar month containing now.
func CurrentMonth(tasks []AggregatedTask, now time.Time) WindowStats {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return ComputeWindowStats(tasks, start, end)
}

// PreviousMonth computes stats for the calendar month before the one
// containing now. Paired with CurrentMonth for month-over-month growth.
func PreviousMonth(tasks []AggregatedTask, now time.Time) WindowStats {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	return ComputeWindowStats(tasks, start, end)
}

// RollingYear computes stats for the 365 days ending at now.
func RollingYear(tasks []AggregatedTask, now time.Time) WindowStats {
	return ComputeWindowStats(tasks, now.AddDate(-1, 0, 0), now)
}

// IsOverdue reports whether a task's deadline has passed without the
// task being completed. Cancelled tasks still count as overdue; this
// one rule applies everywhere overdue is decided.
func IsOverdue(endTime *time.Time, status models.Status, now time.Time) bool {
	return endTime != nil && endTime.Before(now) && status != models.StatusCompleted
}
