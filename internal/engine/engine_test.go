package engine

import (
	"testing"
	"time"

	"github.com/sprintforge/sprintforge/internal/repository"
	"github.com/sprintforge/sprintforge/pkg/models"
)

// testNow is the fixed wall clock every engine test starts at.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestEngine builds an engine over an in-memory repository with a
// controllable clock. Mutate *clock to move time.
func newTestEngine(t *testing.T) (*Engine, *repository.Memory, *time.Time) {
	t.Helper()
	clock := testNow
	repo := repository.NewMemory()
	eng, err := New(repo, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng, repo, &clock
}

// validTaskDraft returns a draft that passes validation, unassigned.
func validTaskDraft() TaskDraft {
	return TaskDraft{
		Name:        "Implement login form",
		Type:        models.TypeStory,
		Description: "Username and password fields with validation",
		Priority:    models.PriorityMedium,
		StoryPoint:  5,
		Stage:       models.StageDevelopment,
		Tags:        []string{"Frontend", "UI"},
		AssignTo:    "alice",
	}
}

// validSprintDraft returns a draft starting today and ending in four days.
func validSprintDraft() SprintDraft {
	return SprintDraft{
		StartDate:    testNow,
		EndDate:      testNow.AddDate(0, 0, 4),
		ProductOwner: "alice",
		ScrumMaster:  "bob",
		Developers:   []string{"carol", "dave"},
	}
}

// mustCreateTask creates a task or fails the test.
func mustCreateTask(t *testing.T, eng *Engine, draft TaskDraft) *models.Task {
	t.Helper()
	task, err := eng.CreateTask(draft)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

// mustCreateSprint creates a sprint or fails the test.
func mustCreateSprint(t *testing.T, eng *Engine, draft SprintDraft) *models.Sprint {
	t.Helper()
	sprint, err := eng.CreateSprint(draft)
	if err != nil {
		t.Fatalf("CreateSprint: %v", err)
	}
	return sprint
}

func TestNewSeedsDefaultAdmin(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	users := eng.Users()
	if len(users) != 1 {
		t.Fatalf("expected 1 seeded user, got %d", len(users))
	}
	if users[0].Username != "admin" || users[0].Role != models.RoleAdmin {
		t.Errorf("unexpected seed user %+v", users[0])
	}
	if _, err := eng.Authenticate("admin", "1234"); err != nil {
		t.Errorf("default admin login failed: %v", err)
	}
}

func TestNewKeepsExistingUsers(t *testing.T) {
	repo := repository.NewMemory()
	repo.Save(&repository.Collections{
		Users: []models.User{{Username: "erin", Password: "pw", Role: models.RoleAdmin}},
	})

	eng, err := New(repo)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	users := eng.Users()
	if len(users) != 1 || users[0].Username != "erin" {
		t.Fatalf("expected only erin, got %+v", users)
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	eng, repo, _ := newTestEngine(t)
	mustCreateTask(t, eng, validTaskDraft())

	// Simulate an external writer replacing the collections.
	repo.Save(&repository.Collections{
		Tasks: []models.Task{{ID: 7, Name: "External", Status: models.StatusNotStarted}},
	})

	if err := eng.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	tasks := eng.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 7 {
		t.Fatalf("expected only external task 7, got %+v", tasks)
	}

	// Counters never rewind, even when the reloaded state is smaller.
	next := mustCreateTask(t, eng, validTaskDraft())
	if next.ID <= 7 {
		t.Errorf("reload rewound the ID counter: got %d", next.ID)
	}
}

func TestPersistFailureDoesNotPropagate(t *testing.T) {
	eng, repo, _ := newTestEngine(t)
	repo.FailSaves = true

	task, err := eng.CreateTask(validTaskDraft())
	if err != nil {
		t.Fatalf("CreateTask should succeed despite save failure: %v", err)
	}
	if got, err := eng.Task(task.ID); err != nil || got == nil {
		t.Errorf("task missing from in-memory state after failed save: %v", err)
	}
}
