package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/viz"
)

const (
	screenW = 1280
	screenH = 720

	// play area inside the window; the bottom strip holds input and HUD
	areaX = 20
	areaY = 60
	areaW = screenW - 40
	areaH = screenH - 160

	maxInput     = 80
	maxTelemetry = 240
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColStar    = rl.NewColor(255, 215, 0, 255)
	ColError   = rl.NewColor(255, 80, 80, 255)
)

// SessionFactory builds a session for the named level.
type SessionFactory func(level string) (*game.Session, error)

type App struct {
	Session *game.Session
	Factory SessionFactory
	Dt      float64

	Running   bool
	AutoSpawn bool
	InMenu    bool
	Levels    []string
	Selected  int

	Input    string
	Preview  geom.Polyline
	Message  string
	MsgError bool

	Telemetry []float64
	Font      rl.Font

	spawnAcc float64
	vp       viz.Viewport
	quit     bool
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "curvefall")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont falls back to raylib's built-in font when the system font is
// missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp starts in the level menu when s is nil.
func NewApp(s *game.Session, factory SessionFactory) *App {
	a := &App{
		Factory:   factory,
		Levels:    config.ListLevels(),
		Font:      loadFont(),
		AutoSpawn: true,
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	if s == nil {
		a.InMenu = true
	} else {
		a.attach(s)
	}
	return a
}

// RunInteractive opens the window on the level menu and blocks until it
// is closed.
func RunInteractive(factory SessionFactory) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(nil, factory).RunLoop()
}

// Run opens the window on an existing session.
func Run(s *game.Session, factory SessionFactory) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(s, factory).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) attach(s *game.Session) {
	a.Session = s
	a.Dt = s.Config().Physics.Dt
	a.vp = viz.NewViewport(s.World(), areaW, areaH)
	a.Running = true
	a.InMenu = false
	a.Input = ""
	a.Preview = nil
	a.Telemetry = a.Telemetry[:0]
	a.setMessage("type an equation and press enter", false)
}

func (a *App) loadLevel(name string) {
	s, err := a.Factory(name)
	if err != nil {
		a.setMessage(err.Error(), true)
		return
	}
	a.attach(s)
}

func (a *App) setMessage(msg string, isErr bool) {
	a.Message, a.MsgError = msg, isErr
}

func (a *App) Update() {
	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}

	a.updateInput()
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	switch {
	case rl.IsKeyPressed(rl.KeyTab):
		a.Session.SpawnBall()
	case ctrl && rl.IsKeyPressed(rl.KeyP):
		a.Running = !a.Running
	case ctrl && rl.IsKeyPressed(rl.KeyA):
		a.AutoSpawn = !a.AutoSpawn
	case ctrl && rl.IsKeyPressed(rl.KeyR):
		a.Session.Reset()
		a.setMessage("level reset", false)
	case ctrl && rl.IsKeyPressed(rl.KeyZ):
		if err := a.Session.RemoveLastCurve(); err != nil {
			a.setMessage("nothing to undo", true)
		}
	case ctrl && rl.IsKeyPressed(rl.KeyX):
		a.Session.ClearBalls()
	}

	if a.Running {
		a.step()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Levels) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Levels) - 1
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadLevel(a.Levels[a.Selected])
	}
}

func (a *App) updateInput() {
	changed := false
	for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
		if r >= 32 && r < 127 && len(a.Input) < maxInput {
			a.Input += string(rune(r))
			changed = true
		}
	}
	if (rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace)) && len(a.Input) > 0 {
		a.Input = a.Input[:len(a.Input)-1]
		changed = true
	}
	if changed {
		a.Preview = nil
		if pl, ok := a.Session.Preview(a.Input); ok {
			a.Preview = pl
		}
	}

	if rl.IsKeyPressed(rl.KeyEnter) {
		text := strings.TrimSpace(a.Input)
		if text == "" {
			return
		}
		if err := a.Session.Submit(text); err != nil {
			a.setMessage(err.Error(), true)
			return
		}
		a.Input = ""
		a.Preview = nil
		a.setMessage("added "+text, false)
	}
}

func (a *App) step() {
	if a.AutoSpawn {
		a.spawnAcc += a.Dt
		if every := a.Session.Config().Game.SpawnInterval; every > 0 && a.spawnAcc >= every {
			a.spawnAcc -= every
			a.Session.SpawnBall()
		}
	}

	wasWon := a.Session.Won()
	rep := a.Session.Advance(a.Dt)
	if rep.NewlyCollected {
		a.setMessage(fmt.Sprintf("star collected (%d/%d)", rep.Collected, len(a.Session.Stars())), false)
	}
	if rep.Won && !wasWon {
		a.setMessage(fmt.Sprintf("level complete in %.1fs", a.Session.Elapsed()), false)
	}

	mean := 0.0
	if balls := a.Session.Balls(); len(balls) > 0 {
		for _, b := range balls {
			mean += b.Speed()
		}
		mean /= float64(len(balls))
	}
	a.Telemetry = append(a.Telemetry, mean)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawScene()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	lvl := a.Session.Level()
	a.drawText("curvefall", 30, 20, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s  %s", lvl.Name, lvl.Description), 170, 24, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	switch {
	case a.Session.Won():
		status, col = "COMPLETE", ColStar
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 20, 16, col)

	a.drawText(fmt.Sprintf("stars %d/%d   balls %d   t %.1fs",
		a.Session.Collected(), len(a.Session.Stars()), len(a.Session.Balls()), a.Session.Elapsed()), 30, screenH-90, 16, ColAccent)

	rl.DrawRectangleLines(28, screenH-64, 700, 28, ColTextDim)
	a.drawText("> "+a.Input+"_", 36, screenH-60, 18, ColSelect)

	msgCol := ColText
	if a.MsgError {
		msgCol = ColError
	}
	a.drawText(a.Message, 30, screenH-28, 14, msgCol)

	a.DrawTelemetry()
	a.drawText("[ENTER] ADD  [TAB] DROP  [^Z] UNDO  [^R] RESET  [^P] PAUSE  [ESC] MENU", 760, screenH-28, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the mean ball speed as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 760, screenH-96
	width, height := 400, 56

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("v: %.2f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("curvefall", 50, 50, 40, ColSelect)
	a.drawText("Select Level", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Levels {
		line := name
		if lvl := config.GetLevel(name); lvl != nil {
			line = fmt.Sprintf("%-10s %d stars  %s", name, len(lvl.Stars), lvl.Description)
		}
		if i == a.Selected {
			a.drawText("> "+line, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+line, 50, y, 20, ColText)
		}
		y += 28
	}

	if a.MsgError {
		a.drawText(a.Message, 50, y+20, 16, ColError)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: PLAY  Q: QUIT", 850, 680, 14, ColTextDim)
}
