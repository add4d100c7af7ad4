package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the play screen. Curves keep their own
// palette colours; the theme covers everything else.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color // spawn marker
	Accent    lipgloss.Color // stars
	Text      lipgloss.Color // balls
	Muted     lipgloss.Color // axes, preview, collected stars
	Success   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeChalkboard = Theme{
		Name:      "chalkboard",
		Primary:   lipgloss.Color("#e8e8e8"),
		Secondary: lipgloss.Color("#7fdbff"),
		Accent:    lipgloss.Color("#ffdc00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#5a6a5a"),
		Success:   lipgloss.Color("#2ecc40"),
		Error:     lipgloss.Color("#ff4136"),
	}

	ThemeBlueprint = Theme{
		Name:      "blueprint",
		Primary:   lipgloss.Color("#cfe8ff"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Error:     lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeChalkboard

	Themes = []Theme{
		ThemeChalkboard,
		ThemeBlueprint,
		ThemeNeon,
		ThemeRetro,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
