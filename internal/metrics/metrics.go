// Package metrics provides per-frame diagnostics over a fluid.
package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/stablefluid/internal/fluid"
)

type Metric interface {
	Name() string
	Observe(f *fluid.Fluid, frame int)
	Value() float64
	Reset()
}

var registry = map[string]func() Metric{
	"total_density":  func() Metric { return NewTotalDensity() },
	"peak_density":   func() Metric { return NewPeakDensity() },
	"kinetic_energy": func() Metric { return NewKineticEnergy() },
	"max_divergence": func() Metric { return NewMaxDivergence() },
	"stability":      func() Metric { return NewStability() },
}

// ByName builds the named metric.
func ByName(name string) (Metric, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("metrics: unknown metric %q", name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Default returns one of each metric.
func Default() []Metric {
	out := make([]Metric, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name]())
	}
	return out
}
