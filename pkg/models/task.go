package models

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	// StatusNotStarted indicates no work has begun on the task.
	StatusNotStarted TaskStatus = "Not Started"
	// StatusInProgress indicates the task is being worked on.
	StatusInProgress TaskStatus = "In Progress"
	// StatusCompleted indicates the task is done.
	StatusCompleted TaskStatus = "Completed"

	// StatusActive is a legacy alias for StatusInProgress found in older
	// datasets. It is normalized on write and never stored.
	StatusActive TaskStatus = "Active"
)

// Valid returns true if the status is a known storable value.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize maps legacy aliases to their canonical value.
func (s TaskStatus) Normalize() TaskStatus {
	if s == StatusActive {
		return StatusInProgress
	}
	return s
}

// TaskType classifies a task as a story or a bug.
type TaskType string

const (
	// TypeStory is a feature-level unit of work.
	TypeStory TaskType = "Story"
	// TypeBug is a defect fix.
	TypeBug TaskType = "Bug"
)

// Valid returns true if the type is a known value.
func (t TaskType) Valid() bool {
	return t == TypeStory || t == TypeBug
}

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow       Priority = "Low"
	PriorityMedium    Priority = "Medium"
	PriorityImportant Priority = "Important"
	PriorityUrgent    Priority = "Urgent"

	// PriorityHigh is a legacy value kept for backward data compatibility.
	// It is not offered when creating tasks but still ranks in sorts.
	PriorityHigh Priority = "High"
)

// Valid returns true if the priority can be assigned to new tasks.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityImportant, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank returns the numeric sort rank of the priority. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityImportant:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Stage identifies which delivery phase a task belongs to.
type Stage string

const (
	StagePlanning       Stage = "Planning"
	StageDevelopment    Stage = "Development"
	StageTesting        Stage = "Testing"
	StageImplementation Stage = "Implementation"
)

// Valid returns true if the stage is a known value.
func (s Stage) Valid() bool {
	switch s {
	case StagePlanning, StageDevelopment, StageTesting, StageImplementation:
		return true
	default:
		return false
	}
}

// Tags lists the predefined tags a task may carry.
var Tags = []string{
	"Frontend",
	"Backend",
	"API",
	"Database",
	"Framework",
	"Testing",
	"UI",
	"UX",
}

// KnownTag returns true if the tag is part of the predefined tag set.
func KnownTag(tag string) bool {
	for _, t := range Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HistoryKind tags a history entry with its machine-readable meaning.
// The human-readable Action text is kept alongside for display.
type HistoryKind string

const (
	// HistoryCreated marks the entry appended when a task is created.
	HistoryCreated HistoryKind = "created"
	// HistoryEdited marks the entry appended when a task is edited.
	HistoryEdited HistoryKind = "edited"
	// HistoryStatusChanged marks a workflow status transition and carries
	// the From and To statuses.
	HistoryStatusChanged HistoryKind = "status_changed"
)

// HistoryEntry is one immutable record in a task's audit trail.
type HistoryEntry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id" yaml:"id"`
	// Kind is the machine-readable entry variant.
	Kind HistoryKind `json:"kind" yaml:"kind"`
	// Action is the human-readable description of what happened.
	Action string `json:"action" yaml:"action"`
	// Timestamp is when the entry was appended.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// AssignTo is the task assignee at the time, if recorded.
	AssignTo string `json:"assign_to,omitempty" yaml:"assign_to,omitempty"`
	// From is the previous status for status_changed entries.
	From TaskStatus `json:"from,omitempty" yaml:"from,omitempty"`
	// To is the new status for status_changed entries.
	To TaskStatus `json:"to,omitempty" yaml:"to,omitempty"`
}

// Contribution is one time-logged work record on a task.
type Contribution struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id" yaml:"id"`
	// Date is the calendar day the work happened.
	Date time.Time `json:"date" yaml:"date"`
	// Duration is the logged time in minutes.
	Duration int `json:"duration" yaml:"duration"`
	// User is the task's assignee at the time of logging.
	User string `json:"user" yaml:"user"`
}

// Task is a unit of work in the backlog or a sprint.
type Task struct {
	// ID is the unique, never-reused integer key.
	ID int `json:"id" yaml:"id"`
	// Name is the short task title.
	Name string `json:"name" yaml:"name"`
	// Type classifies the task (Story or Bug).
	Type TaskType `json:"type" yaml:"type"`
	// Description is the detailed task text.
	Description string `json:"description" yaml:"description"`
	// Priority orders the task relative to others.
	Priority Priority `json:"priority" yaml:"priority"`
	// StoryPoint estimates effort on a 1-10 scale.
	StoryPoint int `json:"story_point" yaml:"story_point"`
	// Stage is the delivery phase the task belongs to.
	Stage Stage `json:"stage" yaml:"stage"`
	// Tags holds the selected predefined tags.
	Tags []string `json:"tags" yaml:"tags"`
	// AssignTo is the username of the assignee.
	AssignTo string `json:"assign_to" yaml:"assign_to"`
	// SprintID references the containing sprint; nil means product backlog.
	SprintID *int `json:"sprint_id" yaml:"sprint_id"`
	// Status is the workflow state. Backlog tasks are always Not Started.
	Status TaskStatus `json:"status" yaml:"status"`
	// History is the append-only audit trail.
	History []HistoryEntry `json:"history" yaml:"history"`
	// Contributions is the append-only time log.
	Contributions []Contribution `json:"contributions" yaml:"contributions"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// InBacklog returns true if the task has no sprint assignment.
func (t *Task) InBacklog() bool {
	return t.SprintID == nil
}

// HasTag returns true if the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task. The store hands out clones so
// callers can never mutate canonical state directly.
func (t *Task) Clone() *Task {
	c := *t
	if t.SprintID != nil {
		id := *t.SprintID
		c.SprintID = &id
	}
	c.Tags = append([]string(nil), t.Tags...)
	c.History = append([]HistoryEntry(nil), t.History...)
	c.Contributions = append([]Contribution(nil), t.Contributions...)
	return &c
}
