package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(0, 2).Width(panelWidth - 3)
	helpBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// GradientText colours each rune along a blend between two hex colours.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(from))
	b, errB := colorful.Hex(string(to))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Bold(true).Render(text)
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

func Separator(width int, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("─", max(width, 0)))
}

// inkCache memoizes one lipgloss style per canvas colour.
type inkCache map[color.NRGBA]lipgloss.Style

func (ic inkCache) style(c color.Color) lipgloss.Style {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	if s, ok := ic[n]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}.Hex()))
	ic[n] = s
	return s
}
