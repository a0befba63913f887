package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprintforge/sprintforge/internal/engine"
	"github.com/sprintforge/sprintforge/pkg/models"
)

// SprintsPanel shows one sprint at a time with its tasks grouped by status
// and the story point summary. h/l moves between sprints, j/k between tasks,
// and 1/2/3 set the selected task's status.
type SprintsPanel struct {
	engine *engine.Engine

	sprints      []*models.Sprint
	sprintIdx    int
	tasks        []*models.Task
	taskIdx      int
	total        int
	completed    int
	lastErr      string
	statusStyles map[models.SprintStatus]lipgloss.Style

	width  int
	height int

	headerStyle   lipgloss.Style
	groupStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	errStyle      lipgloss.Style
}

// NewSprintsPanel creates the sprint panel.
func NewSprintsPanel(eng *engine.Engine) *SprintsPanel {
	return &SprintsPanel{
		engine: eng,

		statusStyles: map[models.SprintStatus]lipgloss.Style{
			models.SprintInactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			models.SprintActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
			models.SprintCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		},
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		groupStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250")),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// SetSize updates the panel dimensions.
func (p *SprintsPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// SelectedSprint returns the sprint on display, or nil.
func (p *SprintsPanel) SelectedSprint() *models.Sprint {
	if p.sprintIdx < 0 || p.sprintIdx >= len(p.sprints) {
		return nil
	}
	return p.sprints[p.sprintIdx]
}

// SelectedTask returns the highlighted task, or nil.
func (p *SprintsPanel) SelectedTask() *models.Task {
	if p.taskIdx < 0 || p.taskIdx >= len(p.tasks) {
		return nil
	}
	return p.tasks[p.taskIdx]
}

// Reload re-reads the sprint list and the current sprint's tasks.
func (p *SprintsPanel) Reload() {
	p.sprints = p.engine.Sprints()
	if p.sprintIdx >= len(p.sprints) {
		p.sprintIdx = len(p.sprints) - 1
	}
	if p.sprintIdx < 0 {
		p.sprintIdx = 0
	}
	p.reloadTasks()
}

func (p *SprintsPanel) reloadTasks() {
	p.tasks = nil
	p.total, p.completed = 0, 0

	sprint := p.SelectedSprint()
	if sprint == nil {
		return
	}
	tasks, err := p.engine.ListSprintTasks(sprint.ID)
	if err != nil {
		p.lastErr = err.Error()
		return
	}
	// Group ordering on the board: Not Started, In Progress, Completed.
	for _, status := range []models.TaskStatus{
		models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted,
	} {
		for _, task := range tasks {
			if task.Status == status {
				p.tasks = append(p.tasks, task)
			}
		}
	}
	if p.taskIdx >= len(p.tasks) {
		p.taskIdx = len(p.tasks) - 1
	}
	if p.taskIdx < 0 {
		p.taskIdx = 0
	}
	p.total, p.completed, _ = p.engine.SprintSummary(sprint.ID)
}

// HandleKey processes a key press.
func (p *SprintsPanel) HandleKey(msg tea.KeyMsg) {
	p.lastErr = ""
	switch msg.String() {
	case "h", "left":
		if p.sprintIdx > 0 {
			p.sprintIdx--
			p.taskIdx = 0
			p.reloadTasks()
		}
	case "l", "right":
		if p.sprintIdx < len(p.sprints)-1 {
			p.sprintIdx++
			p.taskIdx = 0
			p.reloadTasks()
		}
	case "j", "down":
		if p.taskIdx < len(p.tasks)-1 {
			p.taskIdx++
		}
	case "k", "up":
		if p.taskIdx > 0 {
			p.taskIdx--
		}
	case "1":
		p.setStatus(models.StatusNotStarted)
	case "2":
		p.setStatus(models.StatusInProgress)
	case "3":
		p.setStatus(models.StatusCompleted)
	}
}

func (p *SprintsPanel) setStatus(status models.TaskStatus) {
	task := p.SelectedTask()
	if task == nil {
		return
	}
	if _, err := p.engine.SetTaskStatus(task.ID, status); err != nil {
		p.lastErr = err.Error()
		return
	}
	p.reloadTasks()
}

// View renders the panel.
func (p *SprintsPanel) View() string {
	sprint := p.SelectedSprint()
	if sprint == nil {
		return p.dimStyle.Render("no sprints yet")
	}

	var b strings.Builder
	status := string(sprint.Status)
	if style, ok := p.statusStyles[sprint.Status]; ok {
		status = style.Render(status)
	}
	b.WriteString(p.headerStyle.Render(fmt.Sprintf("%s (%d/%d)", sprint.Name, p.sprintIdx+1, len(p.sprints))))
	b.WriteString("  " + status)
	b.WriteString("\n")
	b.WriteString(p.dimStyle.Render(fmt.Sprintf("%s to %s  %d days  PO: %s  SM: %s",
		sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"),
		sprint.Duration, sprint.ProductOwner, sprint.ScrumMaster)))
	b.WriteString("\n")
	b.WriteString(p.dimStyle.Render(fmt.Sprintf("developers: %s", strings.Join(sprint.Developers, ", "))))
	b.WriteString("\n")
	b.WriteString(p.headerStyle.Render(fmt.Sprintf("story points: %d/%d completed", p.completed, p.total)))
	b.WriteString("\n\n")

	if len(p.tasks) == 0 {
		b.WriteString(p.dimStyle.Render("no tasks in this sprint"))
		return b.String()
	}

	var lastStatus models.TaskStatus
	for i, task := range p.tasks {
		if task.Status != lastStatus || i == 0 {
			b.WriteString(p.groupStyle.Render(string(task.Status)))
			b.WriteString("\n")
			lastStatus = task.Status
		}
		line := fmt.Sprintf("#%-3d %-30s %s  %dpt  %s",
			task.ID, truncate(task.Name, 30), task.Priority, task.StoryPoint, task.AssignTo)
		if i == p.taskIdx {
			line = p.selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if p.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(p.errStyle.Render(p.lastErr))
	}
	return b.String()
}
