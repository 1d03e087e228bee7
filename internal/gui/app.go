package gui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(10, 10, 10, 180)
)

const (
	maxTelemetry = 300
	stepDisplay  = 100
	snapshotPath = "backdrop.png"
)

type App struct {
	Sched     *scheduler.Scheduler
	Config    *config.Config
	Running   bool
	ShowHUD   bool
	Telemetry []float64

	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA
	backdrop   color.NRGBA
	shownSteps int
	minimized  bool
	quit       bool
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(w), int32(h), "backdrop")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens a resizable window showing cfg's simulation until it is closed.
func Run(reg *engine.Registry, cfg *config.Config) error {
	sched, err := reg.NewScheduler(cfg, scheduler.Options{})
	if err != nil {
		return err
	}

	initWindow(cfg.Surface.Width, cfg.Surface.Height)
	defer rl.CloseWindow()

	a := &App{
		Sched:     sched,
		Config:    cfg,
		Running:   true,
		ShowHUD:   true,
		Telemetry: make([]float64, 0, maxTelemetry),
		backdrop:  color.NRGBA{R: ColBg.R, G: ColBg.G, B: ColBg.B, A: 255},
	}
	sched.Observe(a.record)
	if err := a.start(int(rl.GetScreenWidth()), int(rl.GetScreenHeight())); err != nil {
		return err
	}
	defer rl.UnloadTexture(a.tex)

	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
	a.Sched.Stop()
}

// start (re)builds the animation and its texture for a w x h window.
func (a *App) start(w, h int) error {
	var err error
	if a.Sched.Running() {
		err = a.Sched.Resize(w, h)
	} else {
		err = a.Sched.Start(w, h)
	}
	if err != nil {
		return err
	}
	a.Telemetry = a.Telemetry[:0]
	a.shownSteps = 0

	if a.tex.ID != 0 {
		rl.UnloadTexture(a.tex)
	}
	img := a.frame()
	a.tex = rl.LoadTextureFromImage(rl.NewImageFromImage(img))
	a.texW, a.texH = w, h
	klog.V(1).Infof("gui: texture %dx%d", w, h)
	return nil
}

// frame composites the raster over the window background at the configured
// opacity.
func (a *App) frame() *image.RGBA {
	r, ok := a.Sched.Surface().(*render.Raster)
	if !ok {
		return nil
	}
	return r.Composite(a.backdrop, a.Config.Surface.Opacity)
}

func (a *App) upload() {
	img := a.frame()
	if img == nil {
		return
	}
	a.pixels = toRGBA(img.Pix, a.pixels)
	rl.UpdateTexture(a.tex, a.pixels)
}

func (a *App) record(anim scheduler.Animation) {
	if steps := anim.Steps(); steps%stepDisplay == 0 {
		a.shownSteps = steps
	}
	s, ok := anim.(engine.Sampler)
	if !ok {
		return
	}
	st := s.Stats()
	v := float64(st.Black)
	if st.Particles > 0 {
		v = st.MeanTrail
	}
	if len(a.Telemetry) >= maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, v)
}

func (a *App) Update() {
	if rl.IsWindowResized() && !rl.IsWindowMinimized() {
		w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		if err := a.start(w, h); err != nil {
			klog.Errorf("gui: resize to %dx%d: %v", w, h, err)
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
		return
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		if err := a.start(a.texW, a.texH); err != nil {
			klog.Errorf("gui: restart: %v", err)
		}
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyS):
		rl.TakeScreenshot(snapshotPath)
	}

	a.minimized = rl.IsWindowMinimized() || rl.IsWindowHidden()
	a.Sched.SetVisible(a.Running && !a.minimized)

	if a.Sched.Frame() {
		a.upload()
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	rl.DrawTexture(a.tex, 0, 0, rl.White)
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawRectangle(20, 20, 260, 92, ColPanel)
	a.drawText("backdrop", 30, 30, 20, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Config.Simulation), 140, 34, 14, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 30, 60, 14, col)
	a.drawText(fmt.Sprintf("steps %s", humanize.Comma(int64(a.shownSteps))), 30, 82, 14, ColAccent)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 200, 82, 14, ColTextDim)

	a.DrawTelemetry()
	a.drawText("[SPACE] PAUSE  [R] RESTART  [H] HUD  [S] SNAPSHOT  [Q] QUIT", 30, a.texH-30, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y, size int, c rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), c)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, a.texH-110
	width, height := 300, 60
	rl.DrawRectangle(int32(rectX-10), int32(rectY-10), int32(width+20), int32(height+20), ColPanel)

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
}
