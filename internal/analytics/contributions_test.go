package analytics

import (
	"testing"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

func contribTask(contribs ...models.Contribution) *models.Task {
	return &models.Task{ID: 1, Contributions: contribs}
}

func contrib(user string, d time.Time, minutes int) models.Contribution {
	return models.Contribution{User: user, Date: d, Duration: minutes}
}

func TestMemberContributionChart(t *testing.T) {
	tasks := []*models.Task{
		contribTask(
			contrib("alice", day(2), 60),
			contrib("alice", day(2), 30),
			contrib("alice", day(1), 120),
			contrib("bob", day(2), 480),
		),
	}

	chart := MemberContributionChart(tasks, "alice")
	if len(chart) != 2 {
		t.Fatalf("expected 2 days, got %d", len(chart))
	}
	if chart[0].Date != "2026-01-01" || chart[0].Hours != 2 {
		t.Errorf("day 0 = %+v, want 2026-01-01 at 2h", chart[0])
	}
	if chart[1].Date != "2026-01-02" || chart[1].Hours != 1.5 {
		t.Errorf("day 1 = %+v, want 2026-01-02 at 1.5h", chart[1])
	}
}

func TestMemberContributionChartGroupsAcrossTasks(t *testing.T) {
	tasks := []*models.Task{
		contribTask(contrib("alice", day(1), 60)),
		contribTask(contrib("alice", day(1), 60)),
	}
	chart := MemberContributionChart(tasks, "alice")
	if len(chart) != 1 || chart[0].Hours != 2 {
		t.Fatalf("expected one 2h day, got %+v", chart)
	}
}

func TestAverageContributions(t *testing.T) {
	users := []models.User{
		{Username: "alice"},
		{Username: "bob"},
	}
	tasks := []*models.Task{
		contribTask(
			contrib("alice", day(1), 240), // 4h in range
			contrib("alice", day(4), 240), // 4h in range
			contrib("alice", day(9), 600), // outside the range
		),
	}

	rows, err := AverageContributions(tasks, users, day(1), day(4))
	if err != nil {
		t.Fatalf("AverageContributions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected a row per user, got %d", len(rows))
	}

	// 8 hours across a 4-day range, worked days or not.
	if rows[0].Username != "alice" || rows[0].AverageHours != 2 {
		t.Errorf("alice = %+v, want 2 h/day", rows[0])
	}
	// A member with no contributions still appears, at zero.
	if rows[1].Username != "bob" || rows[1].AverageHours != 0 {
		t.Errorf("bob = %+v, want 0 h/day", rows[1])
	}
}

func TestAverageContributionsSingleDayRange(t *testing.T) {
	users := []models.User{{Username: "alice"}}
	tasks := []*models.Task{contribTask(contrib("alice", day(1), 90))}

	rows, err := AverageContributions(tasks, users, day(1), day(1))
	if err != nil {
		t.Fatalf("AverageContributions: %v", err)
	}
	if rows[0].AverageHours != 1.5 {
		t.Errorf("got %.2f h/day, want 1.5 over a one-day range", rows[0].AverageHours)
	}
}

func TestAverageContributionsRejectsInvertedRange(t *testing.T) {
	if _, err := AverageContributions(nil, nil, day(5), day(1)); err == nil {
		t.Fatal("inverted range accepted")
	}
}
