package engine

import (
	"fmt"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// SprintDraft carries the caller-supplied fields for creating or editing a
// sprint. Status and duration are derived, never taken from the caller.
type SprintDraft struct {
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	ProductOwner string
	ScrumMaster  string
	Developers   []string
}

// validateSprintDraft checks dates and roles. Role exclusivity is enforced
// here rather than at the form layer: a user holding product owner or scrum
// master is evicted from the developer list, and the two named roles may not
// collide. Returns the normalized developer list.
func (e *Engine) validateSprintDraft(d *SprintDraft) ([]string, error) {
	if d.StartDate.IsZero() {
		return nil, validationErr("start date", "start date is required")
	}
	if d.EndDate.IsZero() {
		return nil, validationErr("end date", "end date is required")
	}
	today := models.DateOnly(e.now())
	if models.DateOnly(d.StartDate).Before(today) || models.DateOnly(d.EndDate).Before(today) {
		return nil, conflictErr("sprint dates cannot be in the past")
	}
	if models.DateOnly(d.EndDate).Before(models.DateOnly(d.StartDate)) {
		return nil, conflictErr("end date cannot be before start date")
	}
	if d.ProductOwner == "" {
		return nil, validationErr("product owner", "product owner is required")
	}
	if d.ScrumMaster == "" {
		return nil, validationErr("scrum master", "scrum master is required")
	}
	if d.ProductOwner == d.ScrumMaster {
		return nil, conflictErr("%s cannot be both product owner and scrum master", d.ProductOwner)
	}

	devs := make([]string, 0, len(d.Developers))
	for _, dev := range d.Developers {
		if dev == d.ProductOwner || dev == d.ScrumMaster {
			continue
		}
		devs = append(devs, dev)
	}
	if len(devs) == 0 {
		return nil, validationErr("developers", "select at least one developer")
	}
	return devs, nil
}

// CreateSprint validates the draft and creates a sprint with its status
// resolved from the dates. An empty name defaults to "Sprint <n>" where n is
// the current sprint count plus one; the count, not the ID counter, drives
// the numbering, so deleting earlier sprints reuses their numbers.
func (e *Engine) CreateSprint(draft SprintDraft) (*models.Sprint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	devs, err := e.validateSprintDraft(&draft)
	if err != nil {
		return nil, err
	}

	name := draft.Name
	if name == "" {
		name = fmt.Sprintf("Sprint %d", e.store.SprintCount()+1)
	}

	now := e.now()
	sprint := &models.Sprint{
		ID:           e.store.AllocateSprintID(),
		Name:         name,
		StartDate:    models.DateOnly(draft.StartDate),
		EndDate:      models.DateOnly(draft.EndDate),
		Duration:     models.DaysBetween(draft.StartDate, draft.EndDate),
		ProductOwner: draft.ProductOwner,
		ScrumMaster:  draft.ScrumMaster,
		Developers:   devs,
		Status:       ResolveSprintStatus(draft.StartDate, draft.EndDate, now),
		CreatedAt:    now,
	}

	e.store.PutSprint(sprint)
	e.persist()
	e.logger.Log("created sprint %d %q (%s to %s)", sprint.ID, sprint.Name,
		sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"))
	e.emit(Event{Type: EventSprintCreated, SprintID: sprint.ID, Message: sprint.Name})
	return sprint.Clone(), nil
}

// EditSprint replaces a sprint's caller-editable fields, recomputes the
// stored duration, and re-resolves the status from the new dates. The
// backlog-return guard survives edits; the sweep runs at most once per
// sprint lifetime.
func (e *Engine) EditSprint(id int, draft SprintDraft) (*models.Sprint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sprint := e.store.Sprint(id)
	if sprint == nil {
		return nil, notFoundErr("sprint", id)
	}
	devs, err := e.validateSprintDraft(&draft)
	if err != nil {
		return nil, err
	}

	if draft.Name != "" {
		sprint.Name = draft.Name
	}
	sprint.StartDate = models.DateOnly(draft.StartDate)
	sprint.EndDate = models.DateOnly(draft.EndDate)
	sprint.Duration = models.DaysBetween(draft.StartDate, draft.EndDate)
	sprint.ProductOwner = draft.ProductOwner
	sprint.ScrumMaster = draft.ScrumMaster
	sprint.Developers = devs
	sprint.Status = ResolveSprintStatus(sprint.StartDate, sprint.EndDate, e.now())

	e.persist()
	e.logger.Log("edited sprint %d %q", sprint.ID, sprint.Name)
	e.emit(Event{Type: EventSprintEdited, SprintID: sprint.ID, Message: sprint.Name})
	return sprint.Clone(), nil
}

// DeleteSprint removes a sprint. Tasks still open in it (Not Started or
// In Progress) return to the backlog with their status reset; Completed
// tasks keep their sprint reference because completed work is historical,
// even though the reference now dangles.
func (e *Engine) DeleteSprint(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sprint := e.store.Sprint(id)
	if sprint == nil {
		return notFoundErr("sprint", id)
	}

	for _, task := range e.store.Tasks() {
		if task.SprintID == nil || *task.SprintID != id {
			continue
		}
		if task.Status == models.StatusCompleted {
			continue
		}
		task.SprintID = nil
		task.Status = models.StatusNotStarted
	}

	e.store.DeleteSprint(id)
	e.persist()
	e.logger.Log("deleted sprint %d %q", id, sprint.Name)
	e.emit(Event{Type: EventSprintDeleted, SprintID: id, Message: sprint.Name})
	return nil
}

// ReturnIncompleteTasksToBacklog sweeps every Not Started and In Progress
// task out of the sprint. Statuses are preserved; only the assignment is
// cleared, and the backlog read path normalizes what it displays. The sweep
// is idempotent and runs automatically exactly once, the first time the
// sprint resolves to Completed.
func (e *Engine) ReturnIncompleteTasksToBacklog(sprintID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Sprint(sprintID) == nil {
		return notFoundErr("sprint", sprintID)
	}
	e.returnIncompleteLocked(sprintID)
	e.persist()
	return nil
}

// returnIncompleteLocked does the sweep and marks the guard. Callers must
// hold e.mu.
func (e *Engine) returnIncompleteLocked(sprintID int) {
	moved := 0
	for _, task := range e.store.Tasks() {
		if task.SprintID == nil || *task.SprintID != sprintID {
			continue
		}
		if task.Status != models.StatusNotStarted && task.Status != models.StatusInProgress {
			continue
		}
		task.SprintID = nil
		moved++
	}
	if sprint := e.store.Sprint(sprintID); sprint != nil {
		sprint.BacklogReturned = true
	}
	e.logger.Log("returned %d incomplete task(s) from sprint %d to backlog", moved, sprintID)
	e.emit(Event{Type: EventBacklogReturn, SprintID: sprintID,
		Message: fmt.Sprintf("%d task(s) returned to backlog", moved)})
}

// Tick re-resolves every sprint's status against now. Hosts call it on their
// own schedule (the CLI uses a ticker, tests call it directly); the engine
// holds no timer of its own. Re-resolving an already-correct status is a
// no-op, and status changes are never written to any ledger. The first time
// a sprint resolves to Completed its incomplete tasks are swept back to the
// backlog, exactly once per sprint.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed := false
	for _, sprint := range e.store.Sprints() {
		status := ResolveSprintStatus(sprint.StartDate, sprint.EndDate, now)
		if status != sprint.Status {
			sprint.Status = status
			changed = true
			if status == models.SprintCompleted {
				e.emit(Event{Type: EventSprintCompleted, SprintID: sprint.ID, Message: sprint.Name})
			}
		}
		if sprint.Status == models.SprintCompleted && !sprint.BacklogReturned {
			e.returnIncompleteLocked(sprint.ID)
			changed = true
		}
	}
	if changed {
		e.persist()
	}
}
