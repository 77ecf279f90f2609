package metrics

import "github.com/san-kum/stablefluid/internal/fluid"

// KineticEnergy reports the most recent total kinetic energy and keeps the
// peak seen since the last Reset.
type KineticEnergy struct {
	name    string
	current float64
	peak    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *fluid.Fluid, frame int) {
	e.current = f.KineticEnergy()
	if e.current > e.peak {
		e.peak = e.current
	}
}

func (e *KineticEnergy) Value() float64 { return e.current }

func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.peak = 0
}
