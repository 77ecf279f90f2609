package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/logging"
	"github.com/san-kum/stablefluid/internal/metrics"
)

// ErrNoFrames is returned by Run when Config.Frames is not positive.
var ErrNoFrames = errors.New("sim: frame count must be positive")

// Simulator runs a fluid headlessly, one Step per frame.
type Simulator struct {
	fluid     *fluid.Fluid
	painter   *input.Painter
	metrics   []metrics.Metric
	observers []Observer
}

func New(f *fluid.Fluid, brush config.Brush) *Simulator {
	return &Simulator{
		fluid:     f,
		painter:   input.NewPainter(f, brush),
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

// NewFromConfig builds the fluid and brush from cfg.
func NewFromConfig(cfg *config.Config) (*Simulator, error) {
	f, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return nil, err
	}
	return New(f, cfg.Brush), nil
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

func (s *Simulator) Fluid() *fluid.Fluid { return s.fluid }

// Run executes cfg.Frames frames. Each frame applies the script, steps the
// fluid, then samples every metric. Cancellation is checked between frames.
// On error the partial result is returned alongside it.
func (s *Simulator) Run(ctx context.Context, cfg Config, script Script) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoFrames, cfg.Frames)
	}

	log := logging.Logger().With("frames", cfg.Frames, "size", s.fluid.Size())
	log.Info("run started", "iterations", cfg.Iterations)

	result := &Result{
		Times:   make([]float64, 0, cfg.Frames),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, cfg.Frames)
	}

	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	for frame := 0; frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			log.Warn("run cancelled", "frame", frame)
			return result, ctx.Err()
		default:
		}

		if script != nil {
			script.Apply(frame, s.painter)
		}
		s.fluid.Step(cfg.Iterations)

		for _, m := range s.metrics {
			m.Observe(s.fluid, frame)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, obs := range s.observers {
			obs.OnFrame(s.fluid, frame)
		}
		result.Times = append(result.Times, float64(frame+1)*s.fluid.Dt())
		result.Frames++

		if cfg.ValidateState {
			if err := s.fluid.CheckFinite(); err != nil {
				var ie *fluid.InstabilityError
				if errors.As(err, &ie) {
					ie.Frame = frame
				}
				s.finish(result)
				log.Error("run unstable", "frame", frame, "err", err)
				return result, err
			}
		}
	}

	s.finish(result)
	log.Info("run finished", "elapsed", time.Since(start))
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	s.painter.Released()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
