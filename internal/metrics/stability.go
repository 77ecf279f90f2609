package metrics

import "github.com/san-kum/stablefluid/internal/fluid"

// Stability is the fraction of observed frames whose fields were all finite.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *fluid.Fluid, frame int) {
	s.samples++
	if f.CheckFinite() != nil {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
