package analysis

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/sim"
)

var ErrNoSeparation = errors.New("analysis: perturbation must be positive")

// SensitivityResult holds the separation between a reference run and a
// perturbed twin after each frame.
type SensitivityResult struct {
	Separation []float64
	// Rate is the mean of ln(d(t)/d0)/t over frames with a non-zero
	// separation. Negative values mean the perturbation decays.
	Rate float64
}

// Sensitivity runs two fluids from cfg, each under its own script built by
// newScript (which may be nil). The twin gets
// an extra velocity kick of size perturbation at the grid centre before the
// first frame; the L2 distance between the two velocity fields is sampled
// after every frame.
func Sensitivity(ctx context.Context, cfg *config.Config, newScript func() sim.Script, frames int, perturbation float64) (*SensitivityResult, error) {
	if !(perturbation > 0) {
		return nil, ErrNoSeparation
	}
	ref, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return nil, err
	}
	twin, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return nil, err
	}

	c := cfg.Fluid.Size / 2
	twin.VelocityX().Add(c, c, perturbation)
	d0 := separation(ref, twin)

	refPainter := input.NewPainter(ref, cfg.Brush)
	twinPainter := input.NewPainter(twin, cfg.Brush)

	var refScript, twinScript sim.Script
	if newScript != nil {
		refScript, twinScript = newScript(), newScript()
	}

	res := &SensitivityResult{Separation: make([]float64, 0, frames)}
	sumRate, count := 0.0, 0
	for frame := 0; frame < frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if refScript != nil {
			refScript.Apply(frame, refPainter)
			twinScript.Apply(frame, twinPainter)
		}
		ref.Step(cfg.Fluid.Iterations)
		twin.Step(cfg.Fluid.Iterations)

		d := separation(ref, twin)
		res.Separation = append(res.Separation, d)
		if d > 0 && finite(d) {
			t := float64(frame+1) * cfg.Fluid.Dt
			if t > 0 {
				sumRate += math.Log(d/d0) / t
				count++
			}
		}
	}
	if count > 0 {
		res.Rate = sumRate / float64(count)
	}
	return res, nil
}

func separation(a, b *fluid.Fluid) float64 {
	ax, ay := a.VelocityX().Values(), a.VelocityY().Values()
	bx, by := b.VelocityX().Values(), b.VelocityY().Values()
	sum := 0.0
	for i := range ax {
		dx, dy := ax[i]-bx[i], ay[i]-by[i]
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum)
}
