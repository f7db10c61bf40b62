package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/repoyank/repoyank/pick"
)

// keyMap holds the picker keybindings for normal mode.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Fold        key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	Filter      key.Binding
	Confirm     key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	Toggle:      key.NewBinding(key.WithKeys(" ", "enter")),
	Fold:        key.NewBinding(key.WithKeys("tab", "o")),
	ExpandAll:   key.NewBinding(key.WithKeys("*")),
	CollapseAll: key.NewBinding(key.WithKeys("-")),
	SelectAll:   key.NewBinding(key.WithKeys("a")),
	DeselectAll: key.NewBinding(key.WithKeys("d")),
	Filter:      key.NewBinding(key.WithKeys("/")),
	Confirm:     key.NewBinding(key.WithKeys("y")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

var cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// chromeHeight is the number of non-list rows in the view: help line,
// status line, and their separators.
const chromeHeight = 4

// model adapts a pick.App to Bubble Tea. All picker state lives in the
// App; the model only translates messages and renders.
type model struct {
	app *pick.App
}

// runPicker runs the interactive picker over the node arena, mutating it in
// place. It reports whether the user confirmed the selection. The TUI is
// drawn on stderr so a dry-run payload on stdout stays pipeable.
func runPicker(nodes []pick.Node) (bool, error) {
	m := model{app: pick.NewApp(nodes)}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(model)
	if !ok {
		return false, fmt.Errorf("could not get final model state")
	}
	return fm.app.Confirmed, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - chromeHeight
		if h < 1 {
			h = 1
		}
		m.app.SetViewportHeight(h)
		return m, nil

	case tea.KeyMsg:
		if m.app.Mode == pick.ModeFiltering {
			m.updateFiltering(msg)
		} else {
			m.updateNormal(msg)
		}
		if m.app.Quit {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Up):
		m.app.Previous()
	case key.Matches(msg, keys.Down):
		m.app.Next()
	case key.Matches(msg, keys.Toggle):
		m.app.ToggleSelection()
	case key.Matches(msg, keys.Fold):
		m.app.ToggleExpansion()
	case key.Matches(msg, keys.ExpandAll):
		m.app.ExpandAll()
	case key.Matches(msg, keys.CollapseAll):
		m.app.CollapseAll()
	case key.Matches(msg, keys.SelectAll):
		m.app.SelectAllVisible()
	case key.Matches(msg, keys.DeselectAll):
		m.app.DeselectAllVisible()
	case key.Matches(msg, keys.Filter):
		m.app.EnterFilter()
	case key.Matches(msg, keys.Confirm):
		m.app.ConfirmAndQuit()
	case key.Matches(msg, keys.Quit):
		m.app.Abort()
	}
}

func (m model) updateFiltering(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.app.CommitFilter()
	case tea.KeyEscape:
		m.app.CancelFilter()
	case tea.KeyCtrlC:
		m.app.Abort()
	case tea.KeyBackspace:
		m.app.DeleteFilterRune()
	case tea.KeyLeft:
		m.app.MoveFilterCursorLeft()
	case tea.KeyRight:
		m.app.MoveFilterCursorRight()
	case tea.KeySpace:
		m.app.InsertFilterRune(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.app.InsertFilterRune(r)
		}
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("↑/↓ move · space toggle · tab fold · / filter · a/d all/none · y confirm · q quit\n\n")

	vis := m.app.VisibleIndices()
	height := m.app.ViewportHeight
	if height <= 0 {
		height = len(vis)
	}
	end := m.app.ScrollOffset + height
	if end > len(vis) {
		end = len(vis)
	}

	for pos := m.app.ScrollOffset; pos < end; pos++ {
		i := vis[pos]
		line := fmt.Sprintf("%s %s %s", foldMark(m.app.Nodes[i]), stateMark(m.app.Nodes[i].State), m.app.Nodes[i].Label)
		if i == m.app.Current {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	for pad := end - m.app.ScrollOffset; pad < height; pad++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine(len(vis)))
	return b.String()
}

func (m model) statusLine(visible int) string {
	if m.app.Mode == pick.ModeFiltering {
		f := []rune(m.app.Filter())
		c := m.app.FilterCursor()
		return fmt.Sprintf("filter: %s█%s", string(f[:c]), string(f[c:]))
	}
	status := fmt.Sprintf("%d/%d shown, %d files selected", visible, len(m.app.Nodes), len(pick.SelectedFiles(m.app.Nodes)))
	if m.app.Filter() != "" {
		status += fmt.Sprintf(" · filter: %q", m.app.Filter())
	}
	return status
}

func foldMark(n pick.Node) string {
	if !n.IsDir {
		return "   "
	}
	if n.Expanded {
		return "[-]"
	}
	return "[+]"
}

func stateMark(s pick.State) string {
	switch s {
	case pick.FullySelected:
		return "[x]"
	case pick.PartiallySelected:
		return "[~]"
	default:
		return "[ ]"
	}
}
