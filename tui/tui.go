package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/labstack/gommon/log"

	"learnhub/database"
	"learnhub/dto"
)

// Origin is the browsing context the terminal dashboard writes as.
const Origin = "tui"

// ProgressStep is what +/- add to the selected assignment.
const ProgressStep = 10

// copyText is swapped in tests; there is no clipboard on CI machines.
var copyText = clipboard.WriteAll

// changedMsg tells the model another context wrote to the store.
type changedMsg struct{}

// Model is the terminal dashboard: the assigned records and the aggregate, re-derived
// from the store after every change.
type Model struct {
	store  *database.Store
	view   dto.Dashboard
	cursor int
	status string
}

func New(store *database.Store) Model {
	m := Model{store: store}
	return m.reload()
}

func (m Model) reload() Model {
	records := database.LoadAssignments(m.store)
	aggregate := database.Aggregate(records, database.GetFallbackProgress(m.store))
	m.view = dto.DashboardFromModels(database.Assigned(records), aggregate, database.FallbackAdjustable(records))
	if m.cursor >= len(m.view.Assignments) {
		m.cursor = max(len(m.view.Assignments)-1, 0)
	}
	return m
}

// Dashboard is what the model currently shows.
func (m Model) Dashboard() dto.Dashboard { return m.view }

func (m Model) selected() (dto.Assignment, bool) {
	if len(m.view.Assignments) == 0 {
		return dto.Assignment{}, false
	}
	return m.view.Assignments[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		return m.reload(), nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.view.Assignments)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "+", "=":
			m = m.step(1)
		case "-":
			m = m.step(-1)
		case " ", "enter":
			if a, ok := m.selected(); ok {
				if _, _, err := database.ToggleComplete(m.store, a.Id); err != nil {
					m.status = fmt.Sprintf("toggle failed: %v", err)
				}
			}
		case "d":
			if a, ok := m.selected(); ok {
				if err := database.RemoveAssignment(m.store, a.Id); err != nil {
					m.status = fmt.Sprintf("remove failed: %v", err)
				} else {
					m.status = "Removed " + a.Title
				}
			}
		case "c":
			if a, ok := m.selected(); ok {
				ref := a.Href
				if ref == "" {
					ref = a.Title
				}
				if err := copyText(ref); err != nil {
					m.status = fmt.Sprintf("Error copying reference: %v", err)
				} else {
					m.status = "Copied " + ref
				}
			}
		}
		return m.reload(), nil
	}
	return m, nil
}

// step moves the selected record, or the fallback scalar while nothing is stored.
func (m Model) step(dir int) Model {
	if m.view.Adjustable {
		if _, _, err := database.StepFallbackProgress(m.store, dir); err != nil {
			m.status = fmt.Sprintf("progress failed: %v", err)
		}
		return m
	}
	if a, ok := m.selected(); ok {
		if _, err := database.ChangeProgress(m.store, a.Id, dir*ProgressStep); err != nil {
			m.status = fmt.Sprintf("progress failed: %v", err)
		}
	}
	return m
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("27")).
			Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func bar(percent, width int) string {
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n\n")

	label := fmt.Sprintf("%s %d%% complete", bar(m.view.Aggregate, 20), m.view.Aggregate)
	if m.view.Completed {
		label = doneStyle.Render(label)
	}
	b.WriteString(label + "\n\n")

	if len(m.view.Assignments) == 0 {
		b.WriteString("No assigned resources. Assign resources from the Resources page.\n")
	}
	for i, a := range m.view.Assignments {
		line := fmt.Sprintf("%s %3d%%  %s", bar(a.Progress, 10), a.Progress, a.Title)
		if a.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	help := "j/k move • +/- progress • space done • d remove • c copy • q quit"
	if m.view.Adjustable {
		help = "+/- progress • q quit"
	}
	b.WriteString("\n" + helpStyle.Render(help) + "\n")
	return b.String()
}

// Watch forwards every write made by another context on the same store to send.
// The returned func unsubscribes.
func Watch(tab *database.Store, send func(tea.Msg)) func() {
	return tab.OnChange(func(c database.Change) {
		if c.Remote {
			// Send blocks until the program reads; never hold up the writer
			go send(changedMsg{})
		}
	})
}

// Run shows the dashboard until the user quits. The store is shared with the
// HTTP server running in the same process, so writes from browser tabs refresh it.
func Run(store *database.Store) error {
	tab := store.Tab(Origin)
	p := tea.NewProgram(New(tab), tea.WithAltScreen())
	unsubscribe := Watch(tab, p.Send)
	defer unsubscribe()

	log.Debug("🖥 terminal dashboard started")
	_, err := p.Run()
	return err
}
