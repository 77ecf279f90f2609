package config

import "sort"

// Presets are named starting points; "default" matches the reference
// 128x128 setup.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"smoke": func() *Config {
		c := DefaultConfig()
		c.Fluid.Diffusion = 0.0001
		c.Fluid.Iterations = 4
		c.Brush.Radius = 3
		return c
	}(),
	"syrup": func() *Config {
		c := DefaultConfig()
		c.Fluid.Viscosity = 0.001
		c.Fluid.Iterations = 8
		c.Brush.VelocityScale = 4
		return c
	}(),
	"coarse": func() *Config {
		c := DefaultConfig()
		c.Fluid.Size = 64
		c.Fluid.Dt = 0.002
		c.Render.Scale = 12
		return c
	}(),
	"fine": func() *Config {
		c := DefaultConfig()
		c.Fluid.Size = 192
		c.Fluid.Iterations = 4
		c.Render.Scale = 4
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil when it is unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
