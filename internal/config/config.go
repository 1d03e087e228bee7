package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSimulation = "flow"
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultParticles  = 1000
	DefaultZoom       = 0.1
	DefaultCurve      = 1.0
	DefaultFadeColor  = "#0a0000"
	DefaultFadeAlpha  = 0.05
	DefaultSaturation = 0.30
	DefaultLightness  = 0.50
	DefaultBackground = "#ffffff"
	DefaultTrail      = "#e5e7eb"
	DefaultAnt        = "#3b82f6"
	DefaultGlyph      = "#ffffff"
	DefaultHeading    = "N"

	DefaultAntCellSize   = 4
	DefaultAntIntervalMs = 50
	DefaultAntOpacity    = 0.6
)

type Config struct {
	Simulation string        `yaml:"simulation"`
	Seed       int64         `yaml:"seed"`
	Surface    SurfaceConfig `yaml:"surface"`
	Flow       FlowConfig    `yaml:"flow"`
	Ant        AntConfig     `yaml:"ant"`
}

type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// CellSize 0 on the flow simulation picks a random size per run.
	CellSize       int     `yaml:"cell_size"`
	TickIntervalMs int     `yaml:"tick_interval_ms"`
	Opacity        float64 `yaml:"opacity"`
}

type FlowConfig struct {
	Particles  int     `yaml:"particles"`
	Zoom       float64 `yaml:"zoom"`
	Curve      float64 `yaml:"curve"`
	Noise      bool    `yaml:"noise"`
	FadeColor  string  `yaml:"fade_color"`
	FadeAlpha  float64 `yaml:"fade_alpha"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
	ShowGrid   bool    `yaml:"show_grid"`
}

type AntConfig struct {
	Background   string `yaml:"background"`
	TrailColor   string `yaml:"trail_color"`
	AntColor     string `yaml:"ant_color"`
	GlyphColor   string `yaml:"glyph_color"`
	StartHeading string `yaml:"start_heading"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: DefaultSimulation,
		Surface: SurfaceConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Opacity: 1,
		},
		Flow: FlowConfig{
			Particles:  DefaultParticles,
			Zoom:       DefaultZoom,
			Curve:      DefaultCurve,
			FadeColor:  DefaultFadeColor,
			FadeAlpha:  DefaultFadeAlpha,
			Saturation: DefaultSaturation,
			Lightness:  DefaultLightness,
		},
		Ant: AntConfig{
			Background:   DefaultBackground,
			TrailColor:   DefaultTrail,
			AntColor:     DefaultAnt,
			GlyphColor:   DefaultGlyph,
			StartHeading: DefaultHeading,
		},
	}
}

// DefaultConfigFor is DefaultConfig with the surface defaults of the named
// simulation. The ant draws 4px cells every 50ms at 60% opacity.
func DefaultConfigFor(simulation string) *Config {
	cfg := DefaultConfig()
	if simulation == "" {
		return cfg
	}
	cfg.Simulation = simulation
	if simulation == "ant" {
		cfg.Surface.CellSize = DefaultAntCellSize
		cfg.Surface.TickIntervalMs = DefaultAntIntervalMs
		cfg.Surface.Opacity = DefaultAntOpacity
	}
	return cfg
}

// Resolve layers the simulation defaults, the preset and the file at path.
// An empty simulation is taken from the file, then DefaultSimulation. An
// empty preset or path is skipped.
func Resolve(simulation, preset, path string) (*Config, error) {
	if simulation == "" && path != "" {
		var peek Config
		if err := peek.Merge(path); err != nil {
			return nil, err
		}
		simulation = peek.Simulation
	}
	if simulation == "" {
		simulation = DefaultSimulation
	}

	cfg := DefaultConfigFor(simulation)
	if preset != "" {
		cfg = GetPreset(simulation, preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset %q for %s", preset, simulation)
		}
	}
	if path != "" {
		if err := cfg.Merge(path); err != nil {
			return nil, err
		}
	}
	cfg.Simulation = simulation
	return cfg, nil
}

// Load reads a config file over the defaults of the simulation it names.
func Load(path string) (*Config, error) {
	return Resolve("", "", path)
}

// Merge overlays the keys present in the file at path onto c.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

// Sanitize forces every numeric field into its legal range.
func (c *Config) Sanitize() {
	if c.Simulation == "" {
		c.Simulation = DefaultSimulation
	}
	if c.Surface.Width <= 0 {
		c.Surface.Width = DefaultWidth
	}
	if c.Surface.Height <= 0 {
		c.Surface.Height = DefaultHeight
	}
	switch {
	case c.Simulation == "flow" && c.Surface.CellSize < 0:
		c.Surface.CellSize = 0
	case c.Simulation != "flow" && c.Surface.CellSize < 1:
		c.Surface.CellSize = 1
	}
	if c.Surface.TickIntervalMs < 0 {
		c.Surface.TickIntervalMs = 0
	}
	c.Surface.Opacity = clamp01(c.Surface.Opacity)

	if c.Flow.Particles <= 0 {
		c.Flow.Particles = DefaultParticles
	}
	c.Flow.FadeAlpha = clamp01(c.Flow.FadeAlpha)
	c.Flow.Saturation = clamp01(c.Flow.Saturation)
	c.Flow.Lightness = clamp01(c.Flow.Lightness)
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Surface.TickIntervalMs) * time.Millisecond
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
