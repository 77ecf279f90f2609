package sim

import (
	"context"
	"sync"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/metrics"
)

// Job is one independent run in an ensemble.
type Job struct {
	Name   string
	Config *config.Config
	Script Script
}

// Ensemble runs independent jobs concurrently, each on its own fluid.
type Ensemble struct {
	jobs    []Job
	metrics func() []metrics.Metric
}

// NewEnsemble runs jobs with a fresh metric set per job built by newMetrics.
func NewEnsemble(jobs []Job, newMetrics func() []metrics.Metric) *Ensemble {
	if newMetrics == nil {
		newMetrics = metrics.Default
	}
	return &Ensemble{jobs: jobs, metrics: newMetrics}
}

// Run returns results in job order. The first error, in job order, is
// returned after every job has stopped.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results, errs := e.RunEach(ctx)
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// RunEach is Run with one error slot per job.
func (e *Ensemble) RunEach(ctx context.Context) ([]*Result, []error) {
	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i, job := range e.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()

			s, err := NewFromConfig(job.Config)
			if err != nil {
				errs[idx] = err
				return
			}
			for _, m := range e.metrics() {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, Config{
				Frames:        job.Config.Run.Frames,
				Iterations:    job.Config.Fluid.Iterations,
				ValidateState: true,
			}, job.Script)
		}(i, job)
	}

	wg.Wait()

	return results, errs
}
