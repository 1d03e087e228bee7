package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the side panel. The canvas always uses the simulation's
// own colours.
type Theme struct {
	Name       string
	TitleFrom  lipgloss.Color
	TitleTo    lipgloss.Color
	Label      lipgloss.Color
	Value      lipgloss.Color
	Muted      lipgloss.Color
	Graph      lipgloss.Color
	Running    lipgloss.Color
	Paused     lipgloss.Color
	Recording  lipgloss.Color
	Background string
}

var (
	ThemeSlate = Theme{
		Name:       "slate",
		TitleFrom:  lipgloss.Color("#3b82f6"),
		TitleTo:    lipgloss.Color("#e5e7eb"),
		Label:      lipgloss.Color("#94a3b8"),
		Value:      lipgloss.Color("#f1f5f9"),
		Muted:      lipgloss.Color("#475569"),
		Graph:      lipgloss.Color("#60a5fa"),
		Running:    lipgloss.Color("#22c55e"),
		Paused:     lipgloss.Color("#f59e0b"),
		Recording:  lipgloss.Color("#ef4444"),
		Background: "#0f172a",
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		TitleFrom:  lipgloss.Color("#ff00ff"),
		TitleTo:    lipgloss.Color("#00ffff"),
		Label:      lipgloss.Color("#888899"),
		Value:      lipgloss.Color("#00ccff"),
		Muted:      lipgloss.Color("#666688"),
		Graph:      lipgloss.Color("#ffff00"),
		Running:    lipgloss.Color("#00ff88"),
		Paused:     lipgloss.Color("#ffaa00"),
		Recording:  lipgloss.Color("#ff4444"),
		Background: "#0a0a0a",
	}

	ThemeRetro = Theme{
		Name:       "retro",
		TitleFrom:  lipgloss.Color("#00ff00"),
		TitleTo:    lipgloss.Color("#88ff88"),
		Label:      lipgloss.Color("#00aa00"),
		Value:      lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Graph:      lipgloss.Color("#00cc00"),
		Running:    lipgloss.Color("#88ff88"),
		Paused:     lipgloss.Color("#ffff00"),
		Recording:  lipgloss.Color("#ff0000"),
		Background: "#001100",
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		TitleFrom:  lipgloss.Color("#ff6b6b"),
		TitleTo:    lipgloss.Color("#feca57"),
		Label:      lipgloss.Color("#8b6b8c"),
		Value:      lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#5d4b5e"),
		Graph:      lipgloss.Color("#ff9ff3"),
		Running:    lipgloss.Color("#5fd068"),
		Paused:     lipgloss.Color("#ffc048"),
		Recording:  lipgloss.Color("#ff4757"),
		Background: "#2d1b2e",
	}

	Themes = []Theme{ThemeSlate, ThemeCyberpunk, ThemeRetro, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to slate.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSlate
}

// NextTheme cycles through Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
