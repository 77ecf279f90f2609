package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSize       = 128
	DefaultDt         = 0.001
	DefaultDiffusion  = 0.00001
	DefaultViscosity  = 0.000001
	DefaultIterations = 1

	DefaultBrushRadius   = 2
	DefaultBrushAmount   = 100.0
	DefaultVelocityScale = 1.0

	DefaultMaxValue = 3.0
	DefaultScale    = 7
	DefaultFPS      = 60
	DefaultFrames   = 600
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Fluid  Fluid  `yaml:"fluid"`
	Brush  Brush  `yaml:"brush"`
	Render Render `yaml:"render"`
	Run    Run    `yaml:"run"`
}

// Fluid holds the construction-time solver settings plus the per-step
// relaxation iteration count.
type Fluid struct {
	Size       int     `yaml:"size"`
	Dt         float64 `yaml:"dt"`
	Diffusion  float64 `yaml:"diffusion"`
	Viscosity  float64 `yaml:"viscosity"`
	Iterations int     `yaml:"iterations"`
}

type Brush struct {
	Radius        int     `yaml:"radius"`
	Amount        float64 `yaml:"amount"`
	VelocityScale float64 `yaml:"velocity_scale"`
}

type Render struct {
	MaxValue float64 `yaml:"max_value"`
	Scale    int     `yaml:"scale"`
	FPS      int     `yaml:"fps"`
}

type Run struct {
	Frames   int    `yaml:"frames"`
	Scenario string `yaml:"scenario"`
}

func DefaultConfig() *Config {
	return &Config{
		Fluid: Fluid{
			Size:       DefaultSize,
			Dt:         DefaultDt,
			Diffusion:  DefaultDiffusion,
			Viscosity:  DefaultViscosity,
			Iterations: DefaultIterations,
		},
		Brush: Brush{
			Radius:        DefaultBrushRadius,
			Amount:        DefaultBrushAmount,
			VelocityScale: DefaultVelocityScale,
		},
		Render: Render{
			MaxValue: DefaultMaxValue,
			Scale:    DefaultScale,
			FPS:      DefaultFPS,
		},
		Run: Run{
			Frames:   DefaultFrames,
			Scenario: "swirl",
		},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Fluid.Size < 3 {
		errs = append(errs, fmt.Errorf("fluid.size must be at least 3, got %d", c.Fluid.Size))
	}
	for name, v := range map[string]float64{
		"fluid.dt":        c.Fluid.Dt,
		"fluid.diffusion": c.Fluid.Diffusion,
		"fluid.viscosity": c.Fluid.Viscosity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%s must be finite and non-negative, got %v", name, v))
		}
	}
	if c.Fluid.Iterations < 0 {
		errs = append(errs, fmt.Errorf("fluid.iterations must be non-negative, got %d", c.Fluid.Iterations))
	}
	if c.Brush.Radius < 0 {
		errs = append(errs, fmt.Errorf("brush.radius must be non-negative, got %d", c.Brush.Radius))
	}
	if c.Render.MaxValue <= 0 {
		errs = append(errs, fmt.Errorf("render.max_value must be positive, got %v", c.Render.MaxValue))
	}
	if c.Render.Scale < 1 {
		errs = append(errs, fmt.Errorf("render.scale must be at least 1, got %d", c.Render.Scale))
	}
	if c.Render.FPS < 1 {
		errs = append(errs, fmt.Errorf("render.fps must be at least 1, got %d", c.Render.FPS))
	}
	if c.Run.Frames < 0 {
		errs = append(errs, fmt.Errorf("run.frames must be non-negative, got %d", c.Run.Frames))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
