package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
)

var simInfo = map[string]string{
	"flow": "particles riding a flow field",
	"ant":  "langton's ant on a torus",
}

const (
	stateMenu = iota
	statePreset
	stateLive
)

// launcher picks a simulation and preset, then hands over to the live view.
type launcher struct {
	reg           *engine.Registry
	state, cursor int
	sims          []string
	selected      string
	presets       []string
	width, height int
	live          Model
	err           error
}

func newLauncher(reg *engine.Registry) launcher {
	return launcher{reg: reg, sims: reg.Names(), width: defaultWidth, height: defaultHeight}
}

func (l launcher) Init() tea.Cmd { return nil }

func (l launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.state == stateLive {
		next, cmd := l.live.Update(msg)
		l.live = next.(Model)
		return l, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width, l.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l launcher) options() []string {
	if l.state == statePreset {
		return l.presets
	}
	return l.sims
}

func (l launcher) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return l, tea.Quit
	case "esc":
		l.state, l.cursor = stateMenu, 0
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.options())-1 {
			l.cursor++
		}
	case "enter", " ", "space":
		if l.state == stateMenu {
			l.selected = l.sims[l.cursor]
			l.presets = config.ListPresets(l.selected)
			l.state, l.cursor = statePreset, 0
			if len(l.presets) > 0 {
				return l, nil
			}
		}
		return l.start()
	}
	return l, nil
}

func (l launcher) start() (tea.Model, tea.Cmd) {
	cfg := config.DefaultConfigFor(l.selected)
	if l.cursor < len(l.presets) {
		cfg = config.GetPreset(l.selected, l.presets[l.cursor])
	}
	cfg.Simulation = l.selected

	live, err := NewModel(l.reg, cfg)
	if err != nil {
		l.err = err
		return l, nil
	}
	next, _ := live.Update(tea.WindowSizeMsg{Width: l.width, Height: l.height})
	l.live = next.(Model)
	l.state = stateLive
	return l, l.live.Init()
}

func (l launcher) View() string {
	if l.state == stateLive {
		return l.live.View()
	}

	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cur := lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb")).Bold(true)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true)

	var b strings.Builder
	title, desc := "BACKDROP", "generative backgrounds"
	if l.state == statePreset {
		title, desc = strings.ToUpper(l.selected), simInfo[l.selected]
	}
	b.WriteString("\n\n    " + h.Render(title) + "\n    " + sub.Render(desc) + "\n    " + sub.Render("─────────────────────────") + "\n\n")

	for i, name := range l.options() {
		info := ""
		if l.state == stateMenu {
			info = simInfo[name]
		}
		if i == l.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), cur.Render(fmt.Sprintf("%-12s", name)), sub.Render(info)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", off.Render(fmt.Sprintf("%-12s", name)), off.Render(info)))
		}
	}
	if l.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Render(l.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" select  ") + key.Render("esc") + sub.Render(" back  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunLauncher opens the simulation picker.
func RunLauncher(reg *engine.Registry) error {
	_, err := tea.NewProgram(newLauncher(reg), tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}
