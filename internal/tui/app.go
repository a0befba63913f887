// Package tui renders the terminal board: a backlog tab and a sprint tab
// over the lifecycle engine. The board is a thin collaborator; every
// mutation goes through engine commands and the board re-reads state after
// each one.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprintforge/sprintforge/internal/engine"
)

const (
	tabBacklog = iota
	tabSprints
)

// refreshMsg drives periodic redraws so resolver-driven sprint status
// changes show up without input.
type refreshMsg time.Time

// eventMsg wraps an engine event delivered to the board.
type eventMsg engine.Event

// confirmTarget is a pending delete awaiting its second step.
type confirmTarget struct {
	kind string // "task" or "sprint"
	id   int
	name string
}

// App is the root bubbletea model for the board.
type App struct {
	engine  *engine.Engine
	refresh time.Duration

	tab     int
	backlog *BacklogPanel
	sprints *SprintsPanel

	confirm *confirmTarget
	status  string

	width  int
	height int

	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	footerStyle    lipgloss.Style
	errorStyle     lipgloss.Style
}

// NewApp creates the board over an engine.
func NewApp(eng *engine.Engine, refresh time.Duration) *App {
	if refresh <= 0 {
		refresh = time.Second
	}
	return &App{
		engine:  eng,
		refresh: refresh,
		backlog: NewBacklogPanel(eng),
		sprints: NewSprintsPanel(eng),

		tabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 2),
		activeTabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Underline(true).
			Padding(0, 2),
		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// Init starts the refresh loop and the event subscription.
func (a *App) Init() tea.Cmd {
	a.backlog.Reload()
	a.sprints.Reload()
	return tea.Batch(a.tick(), a.waitForEvent())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.engine.Events()
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.backlog.SetSize(msg.Width, msg.Height-3)
		a.sprints.SetSize(msg.Width, msg.Height-3)
		return a, nil

	case refreshMsg:
		a.backlog.Reload()
		a.sprints.Reload()
		return a, a.tick()

	case eventMsg:
		a.status = eventStatusLine(engine.Event(msg))
		a.backlog.Reload()
		a.sprints.Reload()
		return a, a.waitForEvent()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending delete swallows the next key: y commits, anything else
	// cancels. This is the two-step confirm the engine itself refuses
	// to own.
	if a.confirm != nil {
		target := a.confirm
		a.confirm = nil
		if msg.String() == "y" {
			a.runDelete(target)
		} else {
			a.status = "delete cancelled"
		}
		return a, nil
	}

	if a.tab == tabBacklog && a.backlog.Filtering() {
		a.backlog.HandleKey(msg)
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		a.tab = (a.tab + 1) % 2
		return a, nil
	case "d":
		if target := a.deleteTarget(); target != nil {
			a.confirm = target
			a.status = fmt.Sprintf("delete %s %q? press y to confirm", target.kind, target.name)
		}
		return a, nil
	}

	if a.tab == tabBacklog {
		a.backlog.HandleKey(msg)
	} else {
		a.sprints.HandleKey(msg)
	}
	return a, nil
}

func (a *App) deleteTarget() *confirmTarget {
	if a.tab == tabBacklog {
		if task := a.backlog.Selected(); task != nil {
			return &confirmTarget{kind: "task", id: task.ID, name: task.Name}
		}
		return nil
	}
	if task := a.sprints.SelectedTask(); task != nil {
		return &confirmTarget{kind: "task", id: task.ID, name: task.Name}
	}
	if sprint := a.sprints.SelectedSprint(); sprint != nil {
		return &confirmTarget{kind: "sprint", id: sprint.ID, name: sprint.Name}
	}
	return nil
}

func (a *App) runDelete(target *confirmTarget) {
	var err error
	if target.kind == "task" {
		err = a.engine.DeleteTask(target.id)
	} else {
		err = a.engine.DeleteSprint(target.id)
	}
	if err != nil {
		a.status = a.errorStyle.Render(err.Error())
		return
	}
	a.status = fmt.Sprintf("deleted %s %q", target.kind, target.name)
	a.backlog.Reload()
	a.sprints.Reload()
}

// View renders the board.
func (a *App) View() string {
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderTab("Backlog", tabBacklog),
		a.renderTab("Sprints", tabSprints),
	)

	var body string
	if a.tab == tabBacklog {
		body = a.backlog.View()
	} else {
		body = a.sprints.View()
	}

	footer := a.footerStyle.Render(a.helpLine())
	if a.status != "" {
		footer = a.status + "  " + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body, footer)
}

func (a *App) renderTab(label string, idx int) string {
	if a.tab == idx {
		return a.activeTabStyle.Render(label)
	}
	return a.tabStyle.Render(label)
}

func (a *App) helpLine() string {
	if a.tab == tabBacklog {
		return "tab: switch  j/k: move  s: sort  /: filter tags  d: delete  q: quit"
	}
	return "tab: switch  j/k: move  h/l: sprint  1/2/3: set status  d: delete  q: quit"
}

func eventStatusLine(ev engine.Event) string {
	switch ev.Type {
	case engine.EventSprintCompleted:
		return fmt.Sprintf("sprint %q completed", ev.Message)
	case engine.EventBacklogReturn:
		return ev.Message
	case engine.EventTaskStatusChanged:
		return fmt.Sprintf("%q is now %s", ev.TaskName, ev.Status)
	default:
		return ""
	}
}
