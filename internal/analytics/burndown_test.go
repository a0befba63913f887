package analytics

import (
	"testing"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func sprintJan1to5() *models.Sprint {
	return &models.Sprint{ID: 1, Name: "Sprint 1", StartDate: day(1), EndDate: day(5)}
}

func sprintTask(id, points int, history ...models.HistoryEntry) *models.Task {
	sid := 1
	return &models.Task{ID: id, StoryPoint: points, SprintID: &sid, History: history}
}

func completedEntry(at time.Time) models.HistoryEntry {
	return models.HistoryEntry{
		Kind:      models.HistoryStatusChanged,
		Action:    `Updated status to "Completed"`,
		Timestamp: at,
		To:        models.StatusCompleted,
	}
}

func TestBurndownIdealLine(t *testing.T) {
	tasks := []*models.Task{sprintTask(1, 6), sprintTask(2, 4)}
	points := Burndown(sprintJan1to5(), tasks)

	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}
	want := []float64{10, 7.5, 5, 2.5, 0}
	for i, p := range points {
		if p.Ideal != want[i] {
			t.Errorf("day %d ideal %.2f, want %.2f", i, p.Ideal, want[i])
		}
	}
}

func TestBurndownActualDropsOnCompletionDay(t *testing.T) {
	tasks := []*models.Task{
		sprintTask(1, 5, completedEntry(day(3).Add(10*time.Hour))),
		sprintTask(2, 5),
	}
	points := Burndown(sprintJan1to5(), tasks)

	want := []float64{10, 10, 5, 5, 5}
	for i, p := range points {
		if p.Actual != want[i] {
			t.Errorf("day %d actual %.1f, want %.1f", i, p.Actual, want[i])
		}
	}
}

func TestBurndownIgnoresAbandonedCompletions(t *testing.T) {
	// Completed on day 2, reopened on day 3: the task never counts.
	reopened := models.HistoryEntry{
		Kind:      models.HistoryStatusChanged,
		Action:    `Updated status to "In Progress"`,
		Timestamp: day(3),
		To:        models.StatusInProgress,
	}
	tasks := []*models.Task{sprintTask(1, 5, completedEntry(day(2)), reopened)}
	points := Burndown(sprintJan1to5(), tasks)

	for i, p := range points {
		if p.Actual != 5 {
			t.Errorf("day %d actual %.1f, want 5 for a reopened task", i, p.Actual)
		}
	}
}

func TestBurndownUsesLatestCompletion(t *testing.T) {
	// Complete, reopen, complete again: only the final completion day
	// counts, replayed in timestamp order regardless of slice order.
	entries := []models.HistoryEntry{
		completedEntry(day(4)),
		{
			Kind:      models.HistoryStatusChanged,
			Action:    `Updated status to "In Progress"`,
			Timestamp: day(3),
			To:        models.StatusInProgress,
		},
		completedEntry(day(2)),
	}
	tasks := []*models.Task{sprintTask(1, 5, entries...)}
	points := Burndown(sprintJan1to5(), tasks)

	want := []float64{5, 5, 5, 0, 0}
	for i, p := range points {
		if p.Actual != want[i] {
			t.Errorf("day %d actual %.1f, want %.1f", i, p.Actual, want[i])
		}
	}
}

func TestBurndownCompletionOutsideRangeDoesNotCount(t *testing.T) {
	tasks := []*models.Task{sprintTask(1, 5, completedEntry(day(9)))}
	points := Burndown(sprintJan1to5(), tasks)
	for i, p := range points {
		if p.Actual != 5 {
			t.Errorf("day %d actual %.1f, want 5 for out-of-range completion", i, p.Actual)
		}
	}
}

func TestBurndownLegacyFreeTextEntries(t *testing.T) {
	// Older datasets carry only the action text, no Kind or To.
	legacy := models.HistoryEntry{
		Action:    `Updated status to "Completed"`,
		Timestamp: day(2),
	}
	tasks := []*models.Task{sprintTask(1, 4, legacy)}
	points := Burndown(sprintJan1to5(), tasks)
	if points[1].Actual != 0 {
		t.Errorf("day 1 actual %.1f, want 0 from the legacy entry", points[1].Actual)
	}
}

func TestBurndownSingleDaySprint(t *testing.T) {
	sprint := &models.Sprint{ID: 1, StartDate: day(1), EndDate: day(1)}
	points := Burndown(sprint, []*models.Task{sprintTask(1, 8)})

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Ideal != 8 {
		t.Errorf("single-day ideal %.1f, want the full total", points[0].Ideal)
	}
}

func TestBurndownExcludesOtherSprints(t *testing.T) {
	other := 2
	foreign := &models.Task{ID: 9, StoryPoint: 100, SprintID: &other}
	backlog := &models.Task{ID: 10, StoryPoint: 50}
	points := Burndown(sprintJan1to5(), []*models.Task{sprintTask(1, 5), foreign, backlog})

	if points[0].Actual != 5 {
		t.Errorf("day 0 actual %.1f, want 5 (foreign tasks excluded)", points[0].Actual)
	}
}
