package metrics

import "github.com/san-kum/stablefluid/internal/fluid"

// MaxDivergence tracks how far the velocity field is from incompressible.
type MaxDivergence struct {
	name    string
	current float64
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (d *MaxDivergence) Name() string { return d.name }

func (d *MaxDivergence) Observe(f *fluid.Fluid, frame int) {
	d.current = f.MaxDivergence()
}

func (d *MaxDivergence) Value() float64 { return d.current }

func (d *MaxDivergence) Reset() { d.current = 0 }
