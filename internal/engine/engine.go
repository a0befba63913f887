package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sprintforge/sprintforge/internal/repository"
	"github.com/sprintforge/sprintforge/pkg/models"
)

// Engine is the single-writer lifecycle controller. Every command from a
// collaborator (CLI, board, host ticker) runs to completion under one lock
// before any other operation observes the store, and every successful
// mutation is followed by a whole-collection save.
type Engine struct {
	mu sync.Mutex

	store *Store
	users []*models.User

	repo    repository.Repository
	emitter *EventEmitter
	logger  *DebugLogger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Tests use a fixed clock to
// make the resolver and ledgers deterministic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(e *Engine) { e.emitter = NewEventEmitter(n) }
}

// defaultAdmin is seeded when the user collection is empty so a fresh
// installation can always log in.
var defaultAdmin = models.User{Username: "admin", Password: "1234", Role: models.RoleAdmin}

// New loads the collections from repo and returns a ready engine. When the
// user collection is empty the default admin account is seeded. Sprint
// statuses are not re-resolved here; hosts call Tick right after startup and
// then on their own schedule.
func New(repo repository.Repository, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:   NewStore(),
		repo:    repo,
		emitter: NewEventEmitter(64),
		logger:  NopLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	cols, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	e.store.SeedTasks(cols.Tasks)
	e.store.SeedSprints(cols.Sprints)
	for i := range cols.Users {
		u := cols.Users[i]
		e.users = append(e.users, &u)
	}
	if len(e.users) == 0 {
		admin := defaultAdmin
		e.users = append(e.users, &admin)
	}

	return e, nil
}

// Reload replaces the in-memory collections with whatever the repository
// holds now. Hosts call it when the collections file changes on disk behind
// the running process. ID counters only ever advance, so IDs handed out
// before the reload are never reissued.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cols, err := e.repo.Load()
	if err != nil {
		return fmt.Errorf("reload collections: %w", err)
	}

	e.store.Reset()
	e.store.SeedTasks(cols.Tasks)
	e.store.SeedSprints(cols.Sprints)
	e.users = nil
	for i := range cols.Users {
		u := cols.Users[i]
		e.users = append(e.users, &u)
	}
	if len(e.users) == 0 {
		admin := defaultAdmin
		e.users = append(e.users, &admin)
	}
	e.logger.Log("reloaded collections: %d task(s), %d sprint(s), %d user(s)",
		len(cols.Tasks), len(cols.Sprints), len(cols.Users))
	return nil
}

// Events returns the engine's event stream.
func (e *Engine) Events() <-chan Event {
	return e.emitter.Events()
}

// Close releases the event channel and the debug log.
func (e *Engine) Close() error {
	e.emitter.Close()
	return e.logger.Close()
}

// snapshot assembles the full persisted state. Callers must hold e.mu.
func (e *Engine) snapshot() *repository.Collections {
	cols := &repository.Collections{}
	for _, u := range e.users {
		cols.Users = append(cols.Users, *u)
	}
	for _, t := range e.store.Tasks() {
		cols.Tasks = append(cols.Tasks, *t.Clone())
	}
	for _, sp := range e.store.Sprints() {
		cols.Sprints = append(cols.Sprints, *sp.Clone())
	}
	return cols
}

// persist saves the full collections. Persistence is fire-and-forget from
// the engine's perspective: failures are logged, never propagated, and the
// in-memory state remains authoritative. Callers must hold e.mu.
func (e *Engine) persist() {
	if err := e.repo.Save(e.snapshot()); err != nil {
		log.Printf("[engine] WARNING: save failed: %v", err)
		e.logger.Log("save failed: %v", err)
	}
}

func (e *Engine) emit(ev Event) {
	ev.Timestamp = e.now()
	e.emitter.Emit(ev)
}
