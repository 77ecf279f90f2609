package metrics

import "github.com/san-kum/stablefluid/internal/fluid"

// TotalDensity is the sum of the density field after the latest frame.
type TotalDensity struct {
	name    string
	current float64
}

func NewTotalDensity() *TotalDensity {
	return &TotalDensity{name: "total_density"}
}

func (d *TotalDensity) Name() string { return d.name }

func (d *TotalDensity) Observe(f *fluid.Fluid, frame int) {
	d.current = f.Density().Sum()
}

func (d *TotalDensity) Value() float64 { return d.current }

func (d *TotalDensity) Reset() { d.current = 0 }

// PeakDensity is the largest single density cell after the latest frame.
type PeakDensity struct {
	name    string
	current float64
}

func NewPeakDensity() *PeakDensity {
	return &PeakDensity{name: "peak_density"}
}

func (d *PeakDensity) Name() string { return d.name }

func (d *PeakDensity) Observe(f *fluid.Fluid, frame int) {
	_, d.current = f.Density().MinMax()
}

func (d *PeakDensity) Value() float64 { return d.current }

func (d *PeakDensity) Reset() { d.current = 0 }
