package fluid

import (
	"fmt"
	"math"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/grid"
)

// Fluid is the complete simulation state: density, velocity and the scratch
// grids the operators solve into. All six grids share one square shape.
type Fluid struct {
	size int
	dt   float64
	diff float64
	visc float64

	s       *grid.Grid
	density *grid.Grid

	vx *grid.Grid
	vy *grid.Grid

	vx0 *grid.Grid
	vy0 *grid.Grid

	// probe holds diagnostics output; it never feeds back into Step.
	probe *grid.Grid
}

// New validates the configuration once and allocates zeroed fields.
func New(size int, dt, diff, visc float64) (*Fluid, error) {
	if size < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrGridTooSmall, size)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"dt", dt}, {"diffusion", diff}, {"viscosity", visc}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v < 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidParameter, p.name, p.v)
		}
	}

	f := &Fluid{size: size, dt: dt, diff: diff, visc: visc}
	for _, g := range []**grid.Grid{&f.s, &f.density, &f.vx, &f.vy, &f.vx0, &f.vy0} {
		buf, err := grid.New(size, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
		*g = buf
	}
	if err := f.checkShapes(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFromConfig builds a Fluid from the fluid section of a configuration.
func NewFromConfig(cfg config.Fluid) (*Fluid, error) {
	return New(cfg.Size, cfg.Dt, cfg.Diffusion, cfg.Viscosity)
}

func (f *Fluid) checkShapes() error {
	for _, g := range f.fields() {
		if g.grid.Rows() != f.size || g.grid.Cols() != f.size {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d",
				ErrDimensionMismatch, g.name, g.grid.Rows(), g.grid.Cols(), f.size, f.size)
		}
	}
	return nil
}

type namedGrid struct {
	name string
	grid *grid.Grid
}

func (f *Fluid) fields() []namedGrid {
	return []namedGrid{
		{"density", f.density}, {"density-scratch", f.s},
		{"velocity-x", f.vx}, {"velocity-y", f.vy},
		{"velocity-x-scratch", f.vx0}, {"velocity-y-scratch", f.vy0},
	}
}

func (f *Fluid) Size() int          { return f.size }
func (f *Fluid) Dt() float64        { return f.dt }
func (f *Fluid) Diffusion() float64 { return f.diff }
func (f *Fluid) Viscosity() float64 { return f.visc }

func (f *Fluid) Density() *grid.Grid   { return f.density }
func (f *Fluid) VelocityX() *grid.Grid { return f.vx }
func (f *Fluid) VelocityY() *grid.Grid { return f.vy }

// Step advances the fluid by one timestep. The operator order is fixed:
// velocity is diffused, projected, self-advected and projected again before
// density is diffused and carried along the corrected velocity.
func (f *Fluid) Step(iterations int) {
	if iterations < 0 {
		iterations = 0
	}

	Diffuse(BoundaryVelocityX, f.vx0, f.vx, f.visc, f.dt, iterations)
	Diffuse(BoundaryVelocityY, f.vy0, f.vy, f.visc, f.dt, iterations)

	Project(f.vx0, f.vy0, f.vx, f.vy, iterations)

	Advect(BoundaryVelocityX, f.vx, f.vx0, f.vx0, f.vy0, f.dt)
	Advect(BoundaryVelocityY, f.vy, f.vy0, f.vx0, f.vy0, f.dt)

	Project(f.vx, f.vy, f.vx0, f.vy0, iterations)

	Diffuse(BoundaryDensity, f.s, f.density, f.diff, f.dt, iterations)
	Advect(BoundaryDensity, f.density, f.s, f.vx, f.vy, f.dt)
}

// Reset zeroes every field.
func (f *Fluid) Reset() {
	for _, g := range f.fields() {
		g.grid.Fill(0)
	}
}

// CheckFinite returns an *InstabilityError naming the first field holding a
// NaN or Inf. The Frame field is left for the caller to fill in.
func (f *Fluid) CheckFinite() error {
	for _, g := range f.fields()[:4] {
		if !g.grid.IsFinite() {
			return &InstabilityError{Field: g.name, Wrapped: ErrUnstable}
		}
	}
	return nil
}

// KineticEnergy is 0.5 * sum(vx^2 + vy^2) over the live velocity field.
func (f *Fluid) KineticEnergy() float64 {
	vx, vy := f.vx.Values(), f.vy.Values()
	e := 0.0
	for i := range vx {
		e += vx[i]*vx[i] + vy[i]*vy[i]
	}
	return 0.5 * e
}

// MaxDivergence is the largest absolute interior divergence of the live
// velocity field.
func (f *Fluid) MaxDivergence() float64 {
	if f.probe == nil {
		f.probe = grid.MustNew(f.size)
	}
	Divergence(f.vx, f.vy, f.probe)
	maxDiv := 0.0
	for j := 1; j < f.size-1; j++ {
		for i := 1; i < f.size-1; i++ {
			maxDiv = math.Max(maxDiv, math.Abs(f.probe.At(i, j)))
		}
	}
	return maxDiv
}
