package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/geom"
)

const (
	defaultWidth    = 60
	defaultHeight   = 20
	sidebarWidth    = 38
	historyCapacity = 300
	maxInput        = 80
)

var (
	canvasStyle  = lipgloss.NewStyle().Padding(0, 1)
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(sidebarWidth)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// PlayModel is the bubbletea model of one game session.
type PlayModel struct {
	session *game.Session
	canvas  *Canvas
	dt      float64

	input     string
	preview   geom.Polyline
	message   string
	isError   bool
	paused    bool
	autoSpawn bool
	spawnAcc  float64
	announced bool
	showHelp  bool

	speeds []float64
}

func NewPlayModel(s *game.Session) PlayModel {
	return PlayModel{
		session:   s,
		canvas:    NewCanvas(defaultWidth, defaultHeight),
		dt:        s.Config().Physics.Dt,
		autoSpawn: true,
		message:   "type an equation and press enter",
		speeds:    make([]float64, 0, historyCapacity),
	}
}

func (m PlayModel) Init() tea.Cmd { return tick() }

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		w := msg.Width - sidebarWidth - 6
		h := msg.Height - 7
		if w > 10 && h > 5 {
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (PlayModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.submit()
		return m, nil
	case "backspace":
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
			m.updatePreview()
		}
		return m, nil
	case "tab":
		m.session.SpawnBall()
		return m, nil
	case "ctrl+p":
		m.paused = !m.paused
		return m, nil
	case "ctrl+a":
		m.autoSpawn = !m.autoSpawn
		return m, nil
	case "ctrl+r":
		m.session.Reset()
		m.announced = false
		m.setMessage("level reset", false)
		return m, nil
	case "ctrl+z":
		if err := m.session.RemoveLastCurve(); err != nil {
			m.setMessage("nothing to undo", true)
		}
		return m, nil
	case "ctrl+x":
		m.session.ClearBalls()
		return m, nil
	case "ctrl+t":
		NextTheme()
		return m, nil
	case "ctrl+n":
		m.nextLevel()
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if len([]rune(m.input))+len(msg.Runes) <= maxInput {
			m.input += string(msg.Runes)
			m.updatePreview()
		}
	}
	return m, nil
}

func (m *PlayModel) submit() {
	text := strings.TrimSpace(m.input)
	if text == "" {
		return
	}
	if err := m.session.Submit(text); err != nil {
		m.setMessage(err.Error(), true)
		return
	}
	m.input = ""
	m.preview = nil
	m.setMessage("added "+text, false)
}

func (m *PlayModel) updatePreview() {
	m.preview = nil
	if pl, ok := m.session.Preview(m.input); ok {
		m.preview = pl
	}
}

func (m *PlayModel) nextLevel() {
	names := config.ListLevels()
	cur := m.session.Level().Name
	next := names[0]
	for i, n := range names {
		if n == cur {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := m.session.SetLevel(next); err != nil {
		m.setMessage(err.Error(), true)
		return
	}
	m.announced = false
	m.setMessage("level "+next, false)
}

func (m *PlayModel) setMessage(s string, isErr bool) {
	m.message, m.isError = s, isErr
}

func (m *PlayModel) step() {
	if m.autoSpawn {
		m.spawnAcc += m.dt
		if every := m.session.Config().Game.SpawnInterval; every > 0 && m.spawnAcc >= every {
			m.spawnAcc -= every
			m.session.SpawnBall()
		}
	}

	rep := m.session.Advance(m.dt)
	if rep.NewlyCollected {
		m.setMessage(fmt.Sprintf("star collected (%d/%d)", rep.Collected, len(m.session.Stars())), false)
	}
	if rep.Won && !m.announced {
		m.announced = true
		m.setMessage(fmt.Sprintf("level complete in %.1fs", m.session.Elapsed()), false)
	}

	mean := 0.0
	if balls := m.session.Balls(); len(balls) > 0 {
		for _, b := range balls {
			mean += b.Speed()
		}
		mean /= float64(len(balls))
	}
	m.speeds = append(m.speeds, mean)
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[1:]
	}
}

func (m PlayModel) View() string {
	th := CurrentTheme
	sc := SceneOf(m.session)
	sc.Preview = m.preview
	sc.Draw(m.canvas, th)

	lvl := m.session.Level()
	header := GradientText("CURVEFALL", th.Primary, th.Accent) + "  " + Subtle.Render(lvl.Name+": "+lvl.Description)

	var s strings.Builder
	status := StatusRunning.Render("RUNNING")
	switch {
	case m.session.Won():
		status = StatusWon.Render("COMPLETE")
	case m.paused:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	total := len(m.session.Stars())
	frac := 0.0
	if total > 0 {
		frac = float64(m.session.Collected()) / float64(total)
	}
	s.WriteString(MetricLabel.Render("Stars") + ProgressBar(frac, 12) + MetricValue.Render(fmt.Sprintf(" %d/%d", m.session.Collected(), total)) + "\n")
	s.WriteString(MetricLabel.Render("Balls") + MetricValue.Render(fmt.Sprintf("%d", len(m.session.Balls()))) + "\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.1fs", m.session.Elapsed())) + "\n")
	auto := "off"
	if m.autoSpawn {
		auto = "on"
	}
	s.WriteString(MetricLabel.Render("Auto") + MetricValue.Render(auto) + "\n\n")

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(26), asciigraph.Caption("mean speed"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(Separator(30) + "\n")
	curves := m.session.Curves()
	if len(curves) == 0 {
		s.WriteString(Subtle.Render("no curves yet") + "\n")
	}
	for _, c := range curves {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("━ "+c.Source) + "\n")
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.Render()), sidebarStyle.Render(s.String()))

	prompt := InputStyle.Render("> " + m.input + "_")
	msgStyle := Subtle
	if m.isError {
		msgStyle = ErrorText
	}
	hints := KeyHint.Render("enter add  tab drop  ^z undo  ^r reset  ^p pause  ^n level  ? help  esc quit")

	view := header + "\n" + main + "\n" + prompt + "\n" + msgStyle.Render(m.message) + "\n" + hints
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  equations   y = x^2 - 3    x = sin(y)    y = 1/x { x > 0 }
  functions   sin cos tan asin acos atan atan2 abs sqrt pow
              log ln exp min max floor ceil round sign PI E

  enter   add curve        tab     drop a ball
  ctrl+z  undo curve       ctrl+x  clear balls
  ctrl+r  reset level      ctrl+n  next level
  ctrl+p  pause            ctrl+a  toggle auto drop
  ctrl+t  cycle theme      esc     quit
`

// RunPlay starts the interactive game on the terminal.
func RunPlay(s *game.Session) error {
	_, err := tea.NewProgram(NewPlayModel(s), tea.WithAltScreen()).Run()
	return err
}
