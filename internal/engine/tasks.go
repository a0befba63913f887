package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// actionCompleted is the exact history text appended when a task enters
// Completed. The pruning rule and the burndown replay both match on it
// verbatim, so the string must never drift.
const actionCompleted = `Updated status to "Completed"`

// TaskDraft carries the caller-supplied fields for creating or editing a
// task. ID, CreatedAt, and the ledgers are owned by the engine.
type TaskDraft struct {
	Name        string
	Type        models.TaskType
	Description string
	Priority    models.Priority
	StoryPoint  int
	Stage       models.Stage
	Tags        []string
	AssignTo    string
	SprintID    *int
	Status      models.TaskStatus
}

// validateTaskDraft checks required fields in a fixed order and reports the
// first unmet one. Nothing is mutated before this passes.
func (e *Engine) validateTaskDraft(d *TaskDraft) error {
	if d.Name == "" {
		return validationErr("name", "task name is required")
	}
	if d.Type == "" {
		return validationErr("type", "task type is required")
	}
	if !d.Type.Valid() {
		return validationErr("type", "must be Story or Bug")
	}
	if d.Priority == "" {
		return validationErr("priority", "priority is required")
	}
	if !d.Priority.Valid() {
		return validationErr("priority", "unknown priority "+string(d.Priority))
	}
	if d.StoryPoint == 0 {
		return validationErr("story point", "story point is required")
	}
	if d.StoryPoint < 1 || d.StoryPoint > 10 {
		return validationErr("story point", "must be between 1 and 10")
	}
	if d.Stage == "" {
		return validationErr("stage", "stage is required")
	}
	if !d.Stage.Valid() {
		return validationErr("stage", "unknown stage "+string(d.Stage))
	}
	if len(d.Tags) == 0 {
		return validationErr("tags", "select at least one tag")
	}
	for _, tag := range d.Tags {
		if !models.KnownTag(tag) {
			return validationErr("tags", "unknown tag "+tag)
		}
	}
	if d.Description == "" {
		return validationErr("description", "description is required")
	}
	if d.AssignTo == "" {
		return validationErr("assignee", "assignee is required")
	}
	if d.SprintID != nil && e.store.Sprint(*d.SprintID) == nil {
		return notFoundErr("sprint", *d.SprintID)
	}
	return nil
}

// draftStatus applies the backlog invariant: a task without a sprint
// assignment is always Not Started, regardless of what the caller set.
func draftStatus(d *TaskDraft) models.TaskStatus {
	if d.SprintID == nil {
		return models.StatusNotStarted
	}
	status := d.Status.Normalize()
	if !status.Valid() {
		return models.StatusNotStarted
	}
	return status
}

// CreateTask validates the draft, allocates a new ID, and appends the
// creation entry to the task's history, attributed to the assignee.
func (e *Engine) CreateTask(draft TaskDraft) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateTaskDraft(&draft); err != nil {
		return nil, err
	}

	now := e.now()
	task := &models.Task{
		ID:          e.store.AllocateTaskID(),
		Name:        draft.Name,
		Type:        draft.Type,
		Description: draft.Description,
		Priority:    draft.Priority,
		StoryPoint:  draft.StoryPoint,
		Stage:       draft.Stage,
		Tags:        append([]string(nil), draft.Tags...),
		AssignTo:    draft.AssignTo,
		SprintID:    copySprintID(draft.SprintID),
		Status:      draftStatus(&draft),
		CreatedAt:   now,
	}
	task.History = append(task.History, models.HistoryEntry{
		ID:        uuid.NewString(),
		Kind:      models.HistoryCreated,
		Action:    `Created task "` + task.Name + `"`,
		Timestamp: now,
		AssignTo:  task.AssignTo,
	})

	e.store.PutTask(task)
	e.persist()
	e.logger.Log("created task %d %q", task.ID, task.Name)
	e.emit(Event{Type: EventTaskCreated, TaskID: task.ID, TaskName: task.Name})
	return task.Clone(), nil
}

// EditTask replaces a task's fields with the draft. If no field differs from
// the current state the edit is dropped with zero observable side effects:
// no store write, no history entry, no save. That silence is a contract, not
// an optimization.
func (e *Engine) EditTask(id int, draft TaskDraft) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.store.Task(id)
	if current == nil {
		return nil, notFoundErr("task", id)
	}
	if err := e.validateTaskDraft(&draft); err != nil {
		return nil, err
	}

	draft.Status = draftStatus(&draft)
	if !taskDiffers(current, &draft) {
		return current.Clone(), nil
	}

	now := e.now()
	updated := &models.Task{
		ID:            current.ID,
		Name:          draft.Name,
		Type:          draft.Type,
		Description:   draft.Description,
		Priority:      draft.Priority,
		StoryPoint:    draft.StoryPoint,
		Stage:         draft.Stage,
		Tags:          append([]string(nil), draft.Tags...),
		AssignTo:      draft.AssignTo,
		SprintID:      copySprintID(draft.SprintID),
		Status:        draft.Status,
		History:       current.History,
		Contributions: current.Contributions,
		CreatedAt:     current.CreatedAt,
	}
	updated.History = append(updated.History, models.HistoryEntry{
		ID:        uuid.NewString(),
		Kind:      models.HistoryEdited,
		Action:    `Edited task "` + updated.Name + `"`,
		Timestamp: now,
		AssignTo:  updated.AssignTo,
	})

	e.store.PutTask(updated)
	e.persist()
	e.logger.Log("edited task %d %q", updated.ID, updated.Name)
	e.emit(Event{Type: EventTaskEdited, TaskID: updated.ID, TaskName: updated.Name})
	return updated.Clone(), nil
}

// taskDiffers reports whether any caller-editable field of the draft departs
// from the stored task.
func taskDiffers(t *models.Task, d *TaskDraft) bool {
	if t.Name != d.Name || t.Type != d.Type || t.Description != d.Description {
		return true
	}
	if t.Priority != d.Priority || t.StoryPoint != d.StoryPoint || t.Stage != d.Stage {
		return true
	}
	if t.AssignTo != d.AssignTo || t.Status != d.Status {
		return true
	}
	if !sameSprintID(t.SprintID, d.SprintID) {
		return true
	}
	if len(t.Tags) != len(d.Tags) {
		return true
	}
	for i := range t.Tags {
		if t.Tags[i] != d.Tags[i] {
			return true
		}
	}
	return false
}

// DeleteTask removes a task and its ledgers. The audit record for the
// deletion is recorded against the collection (debug log + event stream)
// before the task leaves the store; the task's own history dies with it.
// The two-step confirm lives at the UI boundary, not here.
func (e *Engine) DeleteTask(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	task := e.store.Task(id)
	if task == nil {
		return notFoundErr("task", id)
	}

	e.logger.Log("deleted task %d %q (assignee %s)", task.ID, task.Name, task.AssignTo)
	e.emit(Event{
		Type:     EventTaskDeleted,
		TaskID:   task.ID,
		TaskName: task.Name,
		Message:  `Deleted task "` + task.Name + `"`,
	})

	e.store.DeleteTask(id)
	e.persist()
	return nil
}

// SetTaskStatus moves a task between workflow columns. Only tasks assigned
// to a sprint have a mutable status. Entering Completed appends the
// completion entry; setting any other status prunes every prior completion
// entry from the history, so re-entering Completed later leaves exactly one.
func (e *Engine) SetTaskStatus(id int, newStatus models.TaskStatus) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task := e.store.Task(id)
	if task == nil {
		return nil, notFoundErr("task", id)
	}
	if task.SprintID == nil {
		return nil, conflictErr("task %d is in the backlog; backlog tasks are always Not Started", id)
	}
	newStatus = newStatus.Normalize()
	if !newStatus.Valid() {
		return nil, validationErr("status", "unknown status "+string(newStatus))
	}

	from := task.Status
	task.Status = newStatus

	if newStatus == models.StatusCompleted {
		task.History = append(task.History, models.HistoryEntry{
			ID:        uuid.NewString(),
			Kind:      models.HistoryStatusChanged,
			Action:    actionCompleted,
			Timestamp: e.now(),
			From:      from,
			To:        newStatus,
		})
	} else {
		task.History = pruneCompletedEntries(task.History)
	}

	e.persist()
	e.logger.Log("task %d status %s -> %s", id, from, newStatus)
	e.emit(Event{Type: EventTaskStatusChanged, TaskID: id, TaskName: task.Name, Status: newStatus})
	return task.Clone(), nil
}

// pruneCompletedEntries drops every entry whose action text is exactly the
// completion action. All of them go, not just the most recent; the audit
// trail deliberately forgets abandoned completions.
func pruneCompletedEntries(history []models.HistoryEntry) []models.HistoryEntry {
	out := history[:0]
	for _, entry := range history {
		if entry.Action != actionCompleted {
			out = append(out, entry)
		}
	}
	return out
}

// AddContribution appends a time-logged work record to a task, attributed to
// the task's current assignee rather than to whoever is logged in.
func (e *Engine) AddContribution(taskID int, date time.Time, durationMinutes int) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task := e.store.Task(taskID)
	if task == nil {
		return nil, notFoundErr("task", taskID)
	}
	if date.IsZero() {
		return nil, validationErr("date", "contribution date is required")
	}
	if durationMinutes <= 0 {
		return nil, validationErr("duration", "duration must be a positive number of minutes")
	}

	task.Contributions = append(task.Contributions, models.Contribution{
		ID:       uuid.NewString(),
		Date:     models.DateOnly(date),
		Duration: durationMinutes,
		User:     task.AssignTo,
	})

	e.persist()
	e.logger.Log("contribution on task %d: %d minutes by %s", taskID, durationMinutes, task.AssignTo)
	e.emit(Event{Type: EventContributionLogged, TaskID: taskID, TaskName: task.Name})
	return task.Clone(), nil
}

func copySprintID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameSprintID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
