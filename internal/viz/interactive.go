package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/game"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// SessionFactory builds a session for the named level.
type SessionFactory func(level string) (*game.Session, error)

// MenuModel lists the levels and hands over to a PlayModel on selection.
type MenuModel struct {
	levels  []string
	cursor  int
	factory SessionFactory
	play    *PlayModel
	err     error
}

func NewMenuModel(factory SessionFactory) MenuModel {
	return MenuModel{levels: config.ListLevels(), factory: factory}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.play != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.play = nil
			return m, nil
		}
		next, cmd := m.play.Update(msg)
		pm := next.(PlayModel)
		m.play = &pm
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}
	case "t":
		NextTheme()
	case "enter", " ":
		s, err := m.factory(m.levels[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		pm := NewPlayModel(s)
		m.play = &pm
		m.err = nil
		return m, pm.Init()
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.play != nil {
		return m.play.View()
	}

	var b strings.Builder
	b.WriteString("\n  " + GradientText("CURVEFALL", CurrentTheme.Primary, CurrentTheme.Accent) + "\n")
	b.WriteString("  " + dim.Render("draw equations, catch the falling balls, collect every star") + "\n\n")

	for i, name := range m.levels {
		info := ""
		if lvl := config.GetLevel(name); lvl != nil {
			info = fmt.Sprintf("%d stars  %s", len(lvl.Stars), lvl.Description)
		}
		line := fmt.Sprintf("%-10s %s", name, dim.Render(info))
		if i == m.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Render(line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n  " + ErrorText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n  " + yellow.Render("theme "+CurrentTheme.Name) + "\n")
	b.WriteString("  " + KeyHint.Render("↑/↓ select  enter play  t theme  q quit") + "\n")
	return b.String()
}

// RunInteractive opens the level menu; esc inside a level returns to it.
func RunInteractive(factory SessionFactory) error {
	_, err := tea.NewProgram(NewMenuModel(factory), tea.WithAltScreen()).Run()
	return err
}
