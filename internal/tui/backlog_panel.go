package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprintforge/sprintforge/internal/engine"
	"github.com/sprintforge/sprintforge/pkg/models"
)

// sortCycle is the order the s key walks through.
var sortCycle = []engine.SortOption{
	engine.SortNewestFirst,
	engine.SortOldestFirst,
	engine.SortUrgentFirst,
	engine.SortLowFirst,
}

// BacklogPanel lists unassigned tasks with tag filtering and sorting.
type BacklogPanel struct {
	engine *engine.Engine

	tasks    []*models.Task
	selected int
	sortIdx  int

	filter    textinput.Model
	filtering bool

	width  int
	height int

	headerStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	priorityStyle map[models.Priority]lipgloss.Style
}

// NewBacklogPanel creates the backlog panel.
func NewBacklogPanel(eng *engine.Engine) *BacklogPanel {
	ti := textinput.New()
	ti.Placeholder = "comma-separated tags (Frontend, API, ...)"
	ti.CharLimit = 80
	ti.Width = 40

	return &BacklogPanel{
		engine: eng,
		filter: ti,

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		priorityStyle: map[models.Priority]lipgloss.Style{
			models.PriorityUrgent:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			models.PriorityImportant: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			models.PriorityMedium:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			models.PriorityLow:       lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		},
	}
}

// SetSize updates the panel dimensions.
func (p *BacklogPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// Filtering reports whether the tag filter input owns the keyboard.
func (p *BacklogPanel) Filtering() bool {
	return p.filtering
}

// Selected returns the highlighted task, or nil.
func (p *BacklogPanel) Selected() *models.Task {
	if p.selected < 0 || p.selected >= len(p.tasks) {
		return nil
	}
	return p.tasks[p.selected]
}

// Reload re-reads the backlog from the engine with the current sort and
// filter applied.
func (p *BacklogPanel) Reload() {
	p.tasks = p.engine.ListBacklogTasks(sortCycle[p.sortIdx], p.filterTags())
	if p.selected >= len(p.tasks) {
		p.selected = len(p.tasks) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *BacklogPanel) filterTags() []string {
	var tags []string
	for _, part := range strings.Split(p.filter.Value(), ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HandleKey processes a key press.
func (p *BacklogPanel) HandleKey(msg tea.KeyMsg) {
	if p.filtering {
		switch msg.String() {
		case "enter", "esc":
			p.filtering = false
			p.filter.Blur()
			p.Reload()
		default:
			p.filter, _ = p.filter.Update(msg)
			p.Reload()
		}
		return
	}

	switch msg.String() {
	case "j", "down":
		if p.selected < len(p.tasks)-1 {
			p.selected++
		}
	case "k", "up":
		if p.selected > 0 {
			p.selected--
		}
	case "s":
		p.sortIdx = (p.sortIdx + 1) % len(sortCycle)
		p.Reload()
	case "/":
		p.filtering = true
		p.filter.Focus()
	}
}

// View renders the panel.
func (p *BacklogPanel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Backlog (%d)  sort: %s", len(p.tasks), sortCycle[p.sortIdx])
	b.WriteString(p.headerStyle.Render(header))
	b.WriteString("\n")

	if p.filtering || p.filter.Value() != "" {
		b.WriteString("filter: " + p.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(p.tasks) == 0 {
		b.WriteString(p.dimStyle.Render("no tasks in the backlog"))
		return b.String()
	}

	for i, task := range p.tasks {
		line := p.renderTask(task)
		if i == p.selected {
			line = p.selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if sel := p.Selected(); sel != nil {
		b.WriteString("\n")
		b.WriteString(p.renderDetail(sel))
	}
	return b.String()
}

func (p *BacklogPanel) renderTask(task *models.Task) string {
	prio := string(task.Priority)
	if style, ok := p.priorityStyle[task.Priority]; ok {
		prio = style.Render(prio)
	}
	return fmt.Sprintf("#%-3d %-30s %s  %dpt  %s",
		task.ID, truncate(task.Name, 30), prio, task.StoryPoint, task.Type)
}

func (p *BacklogPanel) renderDetail(task *models.Task) string {
	var b strings.Builder
	b.WriteString(p.dimStyle.Render(fmt.Sprintf("assignee: %s  stage: %s  tags: %s",
		task.AssignTo, task.Stage, strings.Join(task.Tags, ", "))))
	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.dimStyle.Render(truncate(task.Description, 100)))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
