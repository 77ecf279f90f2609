package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/sim"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// ParameterSweep runs one scenario across evenly spaced values of a single
// fluid parameter.
type ParameterSweep struct {
	Base      *config.Config
	Scenario  *Scenario
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Result     *sim.Result
	Err        error
}

// SweepParams lists the parameters a sweep can vary.
func SweepParams() []string {
	return []string{"diffusion", "dt", "iterations", "viscosity"}
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Fluid.Dt = v
	case "diffusion":
		cfg.Fluid.Diffusion = v
	case "viscosity":
		cfg.Fluid.Viscosity = v
	case "iterations":
		cfg.Fluid.Iterations = int(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Values lists the parameter value of each sweep step.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	out := make([]float64, sw.NumSteps)
	for i := range out {
		out[i] = sw.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep executes every step concurrently. An unstable step is reported in
// its SweepResult rather than aborting the sweep.
func RunSweep(ctx context.Context, sw *ParameterSweep) ([]SweepResult, error) {
	if sw.Base == nil {
		sw.Base = config.DefaultConfig()
	}
	values := sw.Values()

	jobs := make([]sim.Job, len(values))
	for i, v := range values {
		cfg := *sw.Base
		if err := setParam(&cfg, sw.ParamName, v); err != nil {
			return nil, err
		}
		var script sim.Script
		if sw.Scenario != nil {
			script = sw.Scenario.Player(cfg.Fluid.Size)
		}
		jobs[i] = sim.Job{Name: fmt.Sprintf("%s=%g", sw.ParamName, v), Config: &cfg, Script: script}
	}

	runs, errs := sim.NewEnsemble(jobs, nil).RunEach(ctx)
	results := make([]SweepResult, len(values))
	for i, v := range values {
		results[i] = SweepResult{ParamValue: v, Result: runs[i], Err: errs[i]}
	}
	return results, ctx.Err()
}
