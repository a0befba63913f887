package engine

import (
	"sort"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// SortOption orders the backlog listing. The values double as the labels
// shown in sort pickers.
type SortOption string

const (
	// SortNewestFirst orders by creation time, most recent first.
	SortNewestFirst SortOption = "Newest to Oldest"
	// SortOldestFirst orders by creation time, oldest first.
	SortOldestFirst SortOption = "Oldest to Newest"
	// SortUrgentFirst orders by priority rank, highest first.
	SortUrgentFirst SortOption = "Urgent to Low"
	// SortLowFirst orders by priority rank, lowest first.
	SortLowFirst SortOption = "Low to Urgent"
)

// ListBacklogTasks returns the tasks with no sprint assignment, tag-filtered
// and sorted. The filter is conjunctive: a task must carry every selected
// tag. Returned copies always read Not Started regardless of stored status,
// which keeps the backlog invariant visible even while a post-sweep task
// still carries In Progress internally.
func (e *Engine) ListBacklogTasks(sortBy SortOption, filterTags []string) []*models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*models.Task
	for _, task := range e.store.Tasks() {
		if !task.InBacklog() {
			continue
		}
		if !hasAllTags(task, filterTags) {
			continue
		}
		c := task.Clone()
		c.Status = models.StatusNotStarted
		out = append(out, c)
	}

	switch sortBy {
	case SortNewestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortOldestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortUrgentFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	case SortLowFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}

func hasAllTags(task *models.Task, tags []string) bool {
	for _, tag := range tags {
		if !task.HasTag(tag) {
			return false
		}
	}
	return true
}

// ListSprintTasks returns copies of every task assigned to the sprint.
func (e *Engine) ListSprintTasks(sprintID int) ([]*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Sprint(sprintID) == nil {
		return nil, notFoundErr("sprint", sprintID)
	}
	var out []*models.Task
	for _, task := range e.store.Tasks() {
		if task.SprintID != nil && *task.SprintID == sprintID {
			out = append(out, task.Clone())
		}
	}
	return out, nil
}

// Task returns a copy of the task with the given ID.
func (e *Engine) Task(id int) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task := e.store.Task(id)
	if task == nil {
		return nil, notFoundErr("task", id)
	}
	return task.Clone(), nil
}

// Sprint returns a copy of the sprint with the given ID.
func (e *Engine) Sprint(id int) (*models.Sprint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sprint := e.store.Sprint(id)
	if sprint == nil {
		return nil, notFoundErr("sprint", id)
	}
	return sprint.Clone(), nil
}

// Sprints returns copies of all sprints ordered by ID.
func (e *Engine) Sprints() []*models.Sprint {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*models.Sprint
	for _, sp := range e.store.Sprints() {
		out = append(out, sp.Clone())
	}
	return out
}

// Tasks returns copies of all tasks ordered by ID.
func (e *Engine) Tasks() []*models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*models.Task
	for _, t := range e.store.Tasks() {
		out = append(out, t.Clone())
	}
	return out
}

// SprintSummary reports the total and completed story points for a sprint,
// the two headline numbers on the sprint board.
func (e *Engine) SprintSummary(sprintID int) (total, completed int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Sprint(sprintID) == nil {
		return 0, 0, notFoundErr("sprint", sprintID)
	}
	for _, task := range e.store.Tasks() {
		if task.SprintID == nil || *task.SprintID != sprintID {
			continue
		}
		total += task.StoryPoint
		if task.Status == models.StatusCompleted {
			completed += task.StoryPoint
		}
	}
	return total, completed, nil
}
