package sim

import (
	"time"

	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
)

// Script drives the pointer on each frame before the fluid is stepped.
type Script interface {
	Apply(frame int, p *input.Painter)
}

// ScriptFunc adapts a function to Script.
type ScriptFunc func(frame int, p *input.Painter)

func (fn ScriptFunc) Apply(frame int, p *input.Painter) { fn(frame, p) }

type Observer interface {
	OnFrame(f *fluid.Fluid, frame int)
}

type Config struct {
	Frames     int
	Iterations int
	// ValidateState stops the run on the first non-finite field.
	ValidateState bool
}

type Result struct {
	Frames  int
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
	Elapsed time.Duration
}

// Column returns the series recorded for a metric, or nil.
func (r *Result) Column(name string) []float64 {
	if r == nil {
		return nil
	}
	return r.Series[name]
}
