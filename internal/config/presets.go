package config

import "sort"

// Presets are applied over DefaultConfigFor their simulation.
var Presets = map[string]map[string]func(*Config){
	"flow": {
		"header": func(c *Config) {},
		"calm": func(c *Config) {
			c.Flow.Particles = 400
			c.Flow.Zoom = 0.05
			c.Flow.Curve = 0.5
		},
		"storm": func(c *Config) {
			c.Surface.CellSize = 12
			c.Flow.Particles = 3000
			c.Flow.Zoom = 0.2
			c.Flow.Curve = 2.5
		},
		"noise": func(c *Config) {
			c.Surface.CellSize = 16
			c.Flow.Noise = true
			c.Flow.Curve = 2
		},
		"neon": func(c *Config) {
			c.Flow.Saturation = 0.9
			c.Flow.Lightness = 0.6
			c.Flow.FadeAlpha = 0.1
		},
	},
	"ant": {
		"backdrop": func(c *Config) {
			c.Surface.CellSize = 4
			c.Surface.TickIntervalMs = 50
			c.Surface.Opacity = 0.6
		},
		"fast": func(c *Config) {
			c.Surface.CellSize = 2
			c.Surface.TickIntervalMs = 0
		},
		"large": func(c *Config) {
			c.Surface.CellSize = 10
			c.Surface.TickIntervalMs = 100
		},
		"dark": func(c *Config) {
			c.Surface.CellSize = 4
			c.Surface.TickIntervalMs = 50
			c.Ant.Background = "#111827"
			c.Ant.TrailColor = "#374151"
			c.Ant.AntColor = "#f59e0b"
			c.Ant.GlyphColor = "#111827"
		},
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(simulation, preset string) *Config {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	apply, ok := simPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfigFor(simulation)
	apply(cfg)
	return cfg
}

func ListPresets(simulation string) []string {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(simPresets))
	for name := range simPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
