package engine

import (
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// EventType represents the kind of engine event.
type EventType string

const (
	// EventTaskCreated indicates a task was created.
	EventTaskCreated EventType = "task_created"
	// EventTaskEdited indicates a task was edited with real changes.
	EventTaskEdited EventType = "task_edited"
	// EventTaskDeleted indicates a task was removed. It doubles as the
	// collection-level audit record for the deletion, emitted before the
	// task leaves the store.
	EventTaskDeleted EventType = "task_deleted"
	// EventTaskStatusChanged indicates a workflow status transition.
	EventTaskStatusChanged EventType = "task_status_changed"
	// EventContributionLogged indicates time was logged against a task.
	EventContributionLogged EventType = "contribution_logged"
	// EventSprintCreated indicates a sprint was created.
	EventSprintCreated EventType = "sprint_created"
	// EventSprintEdited indicates a sprint was edited.
	EventSprintEdited EventType = "sprint_edited"
	// EventSprintDeleted indicates a sprint was removed.
	EventSprintDeleted EventType = "sprint_deleted"
	// EventSprintCompleted indicates the resolver moved a sprint to
	// Completed on a tick.
	EventSprintCompleted EventType = "sprint_completed"
	// EventBacklogReturn indicates incomplete tasks were swept back to
	// the backlog after sprint completion.
	EventBacklogReturn EventType = "backlog_return"
)

// Event is emitted by the engine after every meaningful mutation. The board
// and the debug log subscribe to it; the engine never blocks on a subscriber.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the related task, if any.
	TaskID int
	// TaskName is the related task's name, if any.
	TaskName string
	// SprintID is the related sprint, if any.
	SprintID int
	// Message provides human-readable context.
	Message string
	// Status carries the new task status for status change events.
	Status models.TaskStatus
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
