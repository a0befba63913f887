package engine

import (
	"testing"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

func TestResolveSprintStatus(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		today time.Time
		want  models.SprintStatus
	}{
		{"day before start", start.AddDate(0, 0, -1), models.SprintInactive},
		{"start day", start, models.SprintActive},
		{"late on start day", start.Add(23 * time.Hour), models.SprintActive},
		{"mid sprint", start.AddDate(0, 0, 2), models.SprintActive},
		{"end day", end, models.SprintActive},
		{"day after end", end.AddDate(0, 0, 1), models.SprintCompleted},
		{"far future", end.AddDate(1, 0, 0), models.SprintCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveSprintStatus(start, end, tc.today); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveSprintStatusIgnoresTimeOfDay(t *testing.T) {
	// Comparisons are whole calendar days: one minute into the day after
	// the end date already counts as Completed.
	start := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)
	today := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	if got := ResolveSprintStatus(start, end, today); got != models.SprintCompleted {
		t.Errorf("got %q, want Completed", got)
	}
}

func TestStoreNeverReusesIDs(t *testing.T) {
	s := NewStore()

	a := s.AllocateTaskID()
	b := s.AllocateTaskID()
	if a != 1 || b != 2 {
		t.Fatalf("allocated %d, %d; want 1, 2", a, b)
	}
	s.DeleteTask(b)
	if next := s.AllocateTaskID(); next != 3 {
		t.Errorf("counter rewound after delete: got %d", next)
	}
}

func TestStoreSeedAdvancesCounters(t *testing.T) {
	s := NewStore()
	s.SeedTasks([]models.Task{{ID: 4}, {ID: 9}, {ID: 2}})
	if next := s.AllocateTaskID(); next != 10 {
		t.Errorf("next task ID %d, want 10", next)
	}

	s.SeedSprints([]models.Sprint{{ID: 6}})
	if next := s.AllocateSprintID(); next != 7 {
		t.Errorf("next sprint ID %d, want 7", next)
	}
}

func TestStoreResetKeepsCounters(t *testing.T) {
	s := NewStore()
	s.SeedTasks([]models.Task{{ID: 5}})
	s.Reset()
	if len(s.Tasks()) != 0 {
		t.Fatal("reset left tasks behind")
	}
	if next := s.AllocateTaskID(); next != 6 {
		t.Errorf("reset rewound the counter: got %d", next)
	}
}
