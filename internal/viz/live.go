package viz

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/telemetry"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 36
	historyCapacity = 600
	stepDisplay     = 100
	refreshRate     = time.Second / 60
	gifPath         = "backdrop.gif"
	svgPath         = "backdrop.svg"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one scheduler from terminal events.
type Model struct {
	sched         *scheduler.Scheduler
	cfg           *config.Config
	width, height int
	paused        bool
	focused       bool
	shownSteps    int
	last          telemetry.Sample
	history       *history
	theme         Theme
	ink           inkCache
	recorder      *export.GIFRecorder
	note          string
	showHelp      bool
	err           error
}

// NewModel builds the scheduler for cfg on a Braille surface. The animation
// starts at a default terminal size and is rebuilt on the first resize.
func NewModel(reg *engine.Registry, cfg *config.Config) (Model, error) {
	sched, err := reg.NewScheduler(cfg, scheduler.Options{Surface: brailleSurface})
	if err != nil {
		return Model{}, err
	}
	m := Model{
		sched:   sched,
		cfg:     cfg,
		width:   defaultWidth,
		height:  defaultHeight,
		focused: true,
		theme:   ThemeSlate,
		ink:     make(inkCache),
		history: &history{values: make([]float64, 0, historyCapacity)},
	}
	sched.Observe(m.history.record)
	if err := sched.Start(m.canvasSize()); err != nil {
		return Model{}, err
	}
	return m, nil
}

// brailleSurface maps a size in dots onto whole characters.
func brailleSurface(w, h int) render.Surface {
	return render.NewBraille(w/2, h/4)
}

// history is shared by every copy of Model, since bubbletea copies the
// model on each Update.
type history struct {
	values []float64
}

func (h *history) record(a scheduler.Animation) {
	s, ok := a.(engine.Sampler)
	if !ok {
		return
	}
	if len(h.values) >= historyCapacity {
		h.values = h.values[1:]
	}
	h.values = append(h.values, historyValue(s.Stats()))
}

func historyValue(s telemetry.Sample) float64 {
	if s.Particles > 0 {
		return s.MeanTrail
	}
	return float64(s.Black)
}

func (m Model) canvasSize() (int, int) {
	cols := max(m.width-panelWidth-2, 8)
	rows := max(m.height-1, 4)
	return cols * 2, rows * 4
}

func (m Model) canvas() *render.Braille {
	c, _ := m.sched.Surface().(*render.Braille)
	return c
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.restart()
	case tea.FocusMsg:
		m.focused = true
		m.syncVisibility()
	case tea.BlurMsg:
		m.focused = false
		m.syncVisibility()
	case TickMsg:
		if m.sched.Frame() {
			m.afterTick()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sched.Stop()
		return m, tea.Quit
	case " ", "space":
		m.paused = !m.paused
		m.syncVisibility()
	case "r":
		m.restart()
	case "t":
		m.theme = NextTheme(m.theme)
	case "g":
		m.toggleRecording()
	case "e":
		m.exportSVG()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) syncVisibility() {
	m.sched.SetVisible(m.focused && !m.paused)
}

// restart rebuilds the animation at the current terminal size.
func (m *Model) restart() {
	if err := m.sched.Resize(m.canvasSize()); err != nil {
		m.err = err
		return
	}
	m.shownSteps = 0
	m.history.values = m.history.values[:0]
	m.last = telemetry.Sample{}
}

func (m *Model) afterTick() {
	anim := m.sched.Animation()
	if s, ok := anim.(engine.Sampler); ok {
		m.last = s.Stats()
	}
	if steps := anim.Steps(); steps%stepDisplay == 0 || steps < m.shownSteps {
		m.shownSteps = steps
	}
	if m.recorder != nil {
		if !m.recorder.Capture(captureBraille(m.canvas(), m.theme.Background).Image()) {
			m.toggleRecording()
		}
	}
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = export.NewGIFRecorder(max(m.sched.Interval(), refreshRate), 600)
		m.note = "recording"
		return
	}
	if err := m.recorder.Save(gifPath); err != nil {
		m.note = err.Error()
	} else {
		m.note = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), gifPath)
	}
	m.recorder = nil
}

func (m *Model) exportSVG() {
	svg := export.BrailleSVG(m.canvas(), 4)
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		klog.Errorf("export svg: %v", err)
		m.note = err.Error()
		return
	}
	m.note = "wrote " + svgPath
}

func (m Model) status() (string, lipgloss.Color) {
	switch {
	case m.recorder != nil:
		return "● REC", m.theme.Recording
	case m.paused:
		return "PAUSED", m.theme.Paused
	case !m.focused:
		return "HIDDEN", m.theme.Paused
	}
	return "RUNNING", m.theme.Running
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	if m.showHelp {
		return helpBox.BorderForeground(m.theme.Muted).Render(strings.TrimSpace(`
Space  pause / resume
R      restart from scratch
T      cycle themes
G      toggle GIF recording
E      export frame as SVG
?      toggle this help
Q      quit`))
	}
	canvasView := canvasStyle.Render(m.renderCanvas())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.renderPanel())
}

func (m Model) renderCanvas() string {
	c := m.canvas()
	if c == nil {
		return ""
	}
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			ink := c.Ink[row][col]
			if ink == nil || r == 0x2800 {
				b.WriteRune(r)
				continue
			}
			b.WriteString(m.ink.style(ink).Render(string(r)))
		}
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderPanel() string {
	label := lipgloss.NewStyle().Foreground(m.theme.Label).Width(12)
	value := lipgloss.NewStyle().Foreground(m.theme.Value)
	line := func(k, v string) string { return label.Render(k) + value.Render(v) + "\n" }

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.cfg.Simulation), m.theme.TitleFrom, m.theme.TitleTo) + "\n")
	text, c := m.status()
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(c).Render(text) + "\n\n")

	w, h := m.sched.Surface().Size()
	s.WriteString(line("Steps", humanize.Comma(int64(m.shownSteps))))
	s.WriteString(line("Canvas", fmt.Sprintf("%dx%d", w, h)))
	if m.last.Particles > 0 {
		s.WriteString(line("Particles", humanize.Comma(int64(m.last.Particles))))
		s.WriteString(line("Trail", fmt.Sprintf("%.1f ± %.1f", m.last.MeanTrail, m.last.StdTrail)))
	} else {
		s.WriteString(line("Visited", humanize.Comma(int64(m.last.Cells))))
		s.WriteString(line("Black", humanize.Comma(int64(m.last.Black))))
	}
	if iv := m.sched.Interval(); iv > 0 {
		s.WriteString(line("Interval", iv.String()))
	}

	if len(m.history.values) > 1 {
		caption := "black cells"
		if m.last.Particles > 0 {
			caption = "mean trail"
		}
		chart := asciigraph.Plot(m.history.values, asciigraph.Height(5), asciigraph.Width(panelWidth-14), asciigraph.Caption(caption))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Graph).Render(chart) + "\n")
	}

	if m.note != "" {
		s.WriteString("\n" + value.Render(m.note) + "\n")
	}
	s.WriteString("\n" + Separator(panelWidth-8, m.theme.Muted) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Italic(true).Render("SP:Pause R:Restart Q:Quit\nT:Theme G:Record E:SVG ?:Help"))

	return panelStyle.BorderForeground(m.theme.Muted).Render(s.String())
}

// captureBraille rasterizes the lit dots, 4x4 pixels each, for recording.
func captureBraille(c *render.Braille, bg string) *render.Raster {
	const dot = 4
	w, h := c.Size()
	r := render.NewRaster(w*dot, h*dot)
	if base, err := render.Hex(bg); err == nil {
		r.Fill(base)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.Lit(x, y) {
				continue
			}
			ink := c.Ink[y/4][x/2]
			if ink == nil {
				ink = color.White
			}
			r.RoundRect(float64(x*dot), float64(y*dot), dot-1, dot-1, 0, ink)
		}
	}
	return r
}

// Run opens the live view for cfg until the user quits.
func Run(reg *engine.Registry, cfg *config.Config) error {
	m, err := NewModel(reg, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}
