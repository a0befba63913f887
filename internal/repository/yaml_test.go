package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// sampleCollections builds a small but fully-populated state.
func sampleCollections() *Collections {
	sprintID := 1
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Collections{
		Users: []models.User{
			{Username: "admin", Password: "1234", Role: models.RoleAdmin},
			{Username: "alice", Password: "pw", Role: models.RoleUser},
		},
		Tasks: []models.Task{
			{
				ID:          1,
				Name:        "Wire the login form",
				Type:        models.TypeStory,
				Description: "Hook the form up to the session store",
				Priority:    models.PriorityUrgent,
				StoryPoint:  5,
				Stage:       models.StageDevelopment,
				Tags:        []string{"Frontend", "UI"},
				AssignTo:    "alice",
				SprintID:    &sprintID,
				Status:      models.StatusInProgress,
				History: []models.HistoryEntry{
					{
						ID:        "h1",
						Kind:      models.HistoryCreated,
						Action:    `Created task "Wire the login form"`,
						Timestamp: created,
						AssignTo:  "alice",
					},
				},
				Contributions: []models.Contribution{
					{ID: "c1", Date: created, Duration: 90, User: "alice"},
				},
				CreatedAt: created,
			},
			{
				ID:        2,
				Name:      "Backlog item",
				Type:      models.TypeBug,
				Priority:  models.PriorityLow,
				Stage:     models.StagePlanning,
				Tags:      []string{"Backend"},
				AssignTo:  "alice",
				Status:    models.StatusNotStarted,
				CreatedAt: created,
			},
		},
		Sprints: []models.Sprint{
			{
				ID:              1,
				Name:            "Sprint 1",
				StartDate:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				EndDate:         time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				Duration:        4,
				ProductOwner:    "admin",
				ScrumMaster:     "alice",
				Developers:      []string{"bob"},
				Status:          models.SprintActive,
				BacklogReturned: false,
				CreatedAt:       created,
			},
		},
	}
}

// assertCollectionsEqual compares the fields persistence must not lose.
func assertCollectionsEqual(t *testing.T, want, got *Collections) {
	t.Helper()
	if len(got.Users) != len(want.Users) ||
		len(got.Tasks) != len(want.Tasks) ||
		len(got.Sprints) != len(want.Sprints) {
		t.Fatalf("collection sizes: got %d/%d/%d, want %d/%d/%d",
			len(got.Users), len(got.Tasks), len(got.Sprints),
			len(want.Users), len(want.Tasks), len(want.Sprints))
	}

	wt, gt := want.Tasks[0], got.Tasks[0]
	if gt.Name != wt.Name || gt.Priority != wt.Priority || gt.Status != wt.Status {
		t.Errorf("task fields drifted: got %+v", gt)
	}
	if gt.SprintID == nil || *gt.SprintID != *wt.SprintID {
		t.Error("sprint assignment lost")
	}
	if len(gt.History) != 1 || gt.History[0].Action != wt.History[0].Action {
		t.Errorf("history lost: %+v", gt.History)
	}
	if len(gt.Contributions) != 1 || gt.Contributions[0].Duration != 90 {
		t.Errorf("contributions lost: %+v", gt.Contributions)
	}
	if got.Tasks[1].SprintID != nil {
		t.Error("backlog task gained a sprint assignment")
	}

	ws, gs := want.Sprints[0], got.Sprints[0]
	if gs.Name != ws.Name || gs.Status != ws.Status || gs.Duration != ws.Duration {
		t.Errorf("sprint fields drifted: got %+v", gs)
	}
	if !gs.StartDate.Equal(ws.StartDate) || !gs.EndDate.Equal(ws.EndDate) {
		t.Errorf("sprint dates drifted: %v to %v", gs.StartDate, gs.EndDate)
	}
	if len(gs.Developers) != 1 || gs.Developers[0] != "bob" {
		t.Errorf("developers drifted: %v", gs.Developers)
	}
	if gs.BacklogReturned != ws.BacklogReturned {
		t.Error("backlog-return guard drifted")
	}
}

func TestYAMLFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.yaml")
	repo := NewYAMLFile(path)

	want := sampleCollections()
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertCollectionsEqual(t, want, got)
}

func TestYAMLFileMissingFileLoadsEmpty(t *testing.T) {
	repo := NewYAMLFile(filepath.Join(t.TempDir(), "nope.yaml"))
	cols, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cols.Users)+len(cols.Tasks)+len(cols.Sprints) != 0 {
		t.Errorf("missing file loaded non-empty collections: %+v", cols)
	}
}

func TestYAMLFileCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewYAMLFile(path).Load(); err == nil {
		t.Error("corrupt file loaded without error")
	}
}

func TestYAMLFileSaveCreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "collections.yaml")
	if err := NewYAMLFile(path).Save(sampleCollections()); err != nil {
		t.Fatalf("Save into missing directory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("collections file missing after save: %v", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	want := sampleCollections()
	if err := db.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertCollectionsEqual(t, want, got)
}

func TestSQLiteSaveReplacesState(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := db.Save(sampleCollections()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	// A full-collection save must replace, not accumulate.
	if err := db.Save(&Collections{
		Users: []models.User{{Username: "solo", Password: "pw", Role: models.RoleAdmin}},
	}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Users) != 1 || len(got.Tasks) != 0 || len(got.Sprints) != 0 {
		t.Errorf("state accumulated instead of replacing: %d/%d/%d",
			len(got.Users), len(got.Tasks), len(got.Sprints))
	}
}

func TestMemoryCloneIsolation(t *testing.T) {
	repo := NewMemory()
	cols := sampleCollections()
	if err := repo.Save(cols); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cols.Tasks[0].Name = "mutated after save"
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Tasks[0].Name == "mutated after save" {
		t.Error("saved state aliases the caller's slice")
	}

	got.Tasks[0].Name = "mutated after load"
	again, _ := repo.Load()
	if again.Tasks[0].Name == "mutated after load" {
		t.Error("loaded state aliases the stored slice")
	}
}
