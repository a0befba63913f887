// Package repository persists the tracker's three top-level collections as a
// whole: users, tasks, and sprints. The engine loads the full set at startup
// and saves the full set after every mutation; there is no partial or
// incremental persistence contract.
package repository

import (
	"errors"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// Collections is the complete persisted state of the tracker.
type Collections struct {
	Users   []models.User   `json:"users" yaml:"users"`
	Tasks   []models.Task   `json:"tasks" yaml:"tasks"`
	Sprints []models.Sprint `json:"sprints" yaml:"sprints"`
}

// Clone returns a deep copy of the collections.
func (c *Collections) Clone() *Collections {
	out := &Collections{
		Users:   append([]models.User(nil), c.Users...),
		Tasks:   make([]models.Task, 0, len(c.Tasks)),
		Sprints: make([]models.Sprint, 0, len(c.Sprints)),
	}
	for i := range c.Tasks {
		out.Tasks = append(out.Tasks, *c.Tasks[i].Clone())
	}
	for i := range c.Sprints {
		out.Sprints = append(out.Sprints, *c.Sprints[i].Clone())
	}
	return out
}

// Repository is the persistence boundary injected into the engine. Load is
// called once at startup; Save after every mutating operation. Backends must
// treat Save as a full-collection replace.
type Repository interface {
	Load() (*Collections, error)
	Save(*Collections) error
}

// Memory is an in-process Repository used by tests and ephemeral sessions.
type Memory struct {
	state *Collections
	// SaveCount tracks how many times Save has been called; tests use it
	// to assert that no-op edits skip persistence.
	SaveCount int
	// FailSaves makes every Save return an error, for exercising the
	// engine's fire-and-forget persistence.
	FailSaves bool
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{state: &Collections{}}
}

// Load returns a deep copy of the stored state.
func (m *Memory) Load() (*Collections, error) {
	return m.state.Clone(), nil
}

// Save replaces the stored state with a deep copy of c.
func (m *Memory) Save(c *Collections) error {
	if m.FailSaves {
		return errSaveFailed
	}
	m.state = c.Clone()
	m.SaveCount++
	return nil
}

var errSaveFailed = errors.New("save failed")
