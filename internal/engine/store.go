// Package engine implements the sprint and task lifecycle engine: the entity
// store, the assignment and workflow controller, the audit ledgers, and the
// sprint status resolver. All mutations go through the Engine; collaborators
// (CLI, board, persistence) only ever see copies of canonical state.
package engine

import (
	"sort"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// Store owns the canonical in-memory task and sprint state. Identifiers are
// allocated from per-type monotonic counters that never move backwards, so an
// ID is never reused within a session even after deletes.
type Store struct {
	tasks   map[int]*models.Task
	sprints map[int]*models.Sprint

	nextTaskID   int
	nextSprintID int
}

// NewStore returns an empty store with counters starting at 1.
func NewStore() *Store {
	return &Store{
		tasks:        make(map[int]*models.Task),
		sprints:      make(map[int]*models.Sprint),
		nextTaskID:   1,
		nextSprintID: 1,
	}
}

// SeedTasks loads existing tasks and advances the ID counter past them.
func (s *Store) SeedTasks(tasks []models.Task) {
	for i := range tasks {
		t := tasks[i]
		s.tasks[t.ID] = &t
		if t.ID >= s.nextTaskID {
			s.nextTaskID = t.ID + 1
		}
	}
}

// SeedSprints loads existing sprints and advances the ID counter past them.
func (s *Store) SeedSprints(sprints []models.Sprint) {
	for i := range sprints {
		sp := sprints[i]
		s.sprints[sp.ID] = &sp
		if sp.ID >= s.nextSprintID {
			s.nextSprintID = sp.ID + 1
		}
	}
}

// Reset drops all entities but keeps the ID counters where they are, so a
// reload can never hand out an ID the previous state already used.
func (s *Store) Reset() {
	s.tasks = make(map[int]*models.Task)
	s.sprints = make(map[int]*models.Sprint)
}

// AllocateTaskID returns the next task ID and advances the counter.
func (s *Store) AllocateTaskID() int {
	id := s.nextTaskID
	s.nextTaskID++
	return id
}

// AllocateSprintID returns the next sprint ID and advances the counter.
func (s *Store) AllocateSprintID() int {
	id := s.nextSprintID
	s.nextSprintID++
	return id
}

// Task returns the canonical task for id, or nil.
func (s *Store) Task(id int) *models.Task {
	return s.tasks[id]
}

// Sprint returns the canonical sprint for id, or nil.
func (s *Store) Sprint(id int) *models.Sprint {
	return s.sprints[id]
}

// PutTask inserts or replaces a task.
func (s *Store) PutTask(t *models.Task) {
	s.tasks[t.ID] = t
}

// PutSprint inserts or replaces a sprint.
func (s *Store) PutSprint(sp *models.Sprint) {
	s.sprints[sp.ID] = sp
}

// DeleteTask removes a task. The ID counter is not rewound.
func (s *Store) DeleteTask(id int) {
	delete(s.tasks, id)
}

// DeleteSprint removes a sprint. The ID counter is not rewound.
func (s *Store) DeleteSprint(id int) {
	delete(s.sprints, id)
}

// Tasks returns all tasks ordered by ID.
func (s *Store) Tasks() []*models.Task {
	out := make([]*models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sprints returns all sprints ordered by ID.
func (s *Store) Sprints() []*models.Sprint {
	out := make([]*models.Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SprintCount returns how many sprints currently exist. Default sprint names
// derive from this count, not from the ID counter.
func (s *Store) SprintCount() int {
	return len(s.sprints)
}
