// Package analytics builds read-only projections from the entity store and
// the ledgers: the sprint burndown series and per-member contribution
// aggregates. Nothing here mutates engine state.
package analytics

import (
	"regexp"
	"sort"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// BurndownPoint is one day of the burndown series.
type BurndownPoint struct {
	// Date is the calendar day.
	Date time.Time
	// Ideal is the linear reference from the total down to zero.
	Ideal float64
	// Actual is total story points minus what was completed up to and
	// including this day. Never negative.
	Actual float64
}

// statusAction matches the quoted status inside legacy free-text entries
// like `Updated status to "Completed"`.
var statusAction = regexp.MustCompile(`^Updated status to "(.+?)"`)

// Burndown computes the ideal and actual remaining story points for each
// inclusive calendar day of the sprint. Only tasks assigned to the sprint
// count; a task contributes on the day of the entry that most recently moved
// it into Completed, provided the replayed status is still Completed and the
// timestamp falls inside the sprint.
func Burndown(sprint *models.Sprint, tasks []*models.Task) []BurndownPoint {
	start := models.DateOnly(sprint.StartDate)
	end := models.DateOnly(sprint.EndDate)
	days := models.DaysBetween(start, end) + 1

	total := 0
	completedByDay := make(map[time.Time]int)
	for _, task := range tasks {
		if task.SprintID == nil || *task.SprintID != sprint.ID {
			continue
		}
		total += task.StoryPoint
		if day, ok := completionDay(task); ok && !day.Before(start) && !day.After(end) {
			completedByDay[day] += task.StoryPoint
		}
	}

	points := make([]BurndownPoint, 0, days)
	cumulative := 0
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		cumulative += completedByDay[day]

		ideal := float64(total)
		if days > 1 {
			ideal = float64(total) - float64(total)*float64(i)/float64(days-1)
		}
		actual := float64(total - cumulative)
		if actual < 0 {
			actual = 0
		}
		points = append(points, BurndownPoint{Date: day, Ideal: ideal, Actual: actual})
	}
	return points
}

// completionDay replays a task's history in timestamp order and returns the
// calendar day of the entry that last moved the task into Completed. A task
// that later left Completed, or whose history carries no status entries at
// all, yields no day.
func completionDay(task *models.Task) (time.Time, bool) {
	entries := append([]models.HistoryEntry(nil), task.History...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	status := models.StatusNotStarted
	var completedAt time.Time
	found := false
	for _, entry := range entries {
		next, ok := entryStatus(entry)
		if !ok {
			continue
		}
		status = next
		if status == models.StatusCompleted {
			completedAt = entry.Timestamp
			found = true
		} else {
			found = false
		}
	}
	if status != models.StatusCompleted || !found {
		return time.Time{}, false
	}
	return models.DateOnly(completedAt), true
}

// entryStatus extracts the status a history entry transitioned the task
// into. Structured entries carry it directly; legacy entries are parsed out
// of the action text.
func entryStatus(entry models.HistoryEntry) (models.TaskStatus, bool) {
	if entry.Kind == models.HistoryStatusChanged && entry.To != "" {
		return entry.To.Normalize(), true
	}
	if m := statusAction.FindStringSubmatch(entry.Action); m != nil {
		return models.TaskStatus(m[1]).Normalize(), true
	}
	return "", false
}
