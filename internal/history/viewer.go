package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shipit-cli/shipit/internal/ui"
)

// keyMap is the viewer's key bindings.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the bubbletea model for browsing deployment history.
type Model struct {
	records  []Record
	cursor   int
	height   int
	quitting bool
}

// NewModel creates a viewer over records, newest first.
func NewModel(records []Record) Model {
	return Model{records: records, height: 20}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.records) == 0 {
		return ui.StyleMuted.Render("No deployments recorded yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(ui.StyleStep.Render("Deployment history") + "\n\n")

	visible := m.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.records) && i < start+visible; i++ {
		line := FormatRecord(m.records[i])
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + ui.StyleMuted.Render("↑/↓ move · q quit") + "\n")
	return b.String()
}

// Browse runs the interactive history viewer.
func Browse(records []Record) error {
	_, err := tea.NewProgram(NewModel(records)).Run()
	return err
}

// FormatRecord renders one history record as a single line.
func FormatRecord(rec Record) string {
	symbol := ui.StyleSuccess.Render(ui.SymbolSuccess)
	if rec.Status != StatusOK {
		symbol = ui.StyleError.Render(ui.SymbolFail)
	}
	return fmt.Sprintf("%s %s  %s %s %s  %s (%s)",
		symbol,
		rec.Time.Format("2006-01-02 15:04:05"),
		rec.Target,
		ui.SymbolArrow,
		rec.Env,
		rec.Pipeline,
		rec.Duration.Round(time.Millisecond))
}
