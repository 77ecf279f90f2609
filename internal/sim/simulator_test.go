package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/metrics"
)

func smallConfig(frames int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fluid.Size = 24
	cfg.Fluid.Dt = 0.01
	cfg.Run.Frames = frames
	return cfg
}

// drag holds the pointer and moves it right by one cell per frame.
func drag(frame int, p *input.Painter) {
	p.Held(6+frame%10, 12)
}

type countingObserver struct{ frames []int }

func (c *countingObserver) OnFrame(f *fluid.Fluid, frame int) { c.frames = append(c.frames, frame) }

func TestSimulatorRun(t *testing.T) {
	s, err := NewFromConfig(smallConfig(0))
	if err != nil {
		t.Fatal(err)
	}
	total := metrics.NewTotalDensity()
	s.AddMetric(total)
	obs := &countingObserver{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), Config{Frames: 8, Iterations: 2, ValidateState: true}, ScriptFunc(drag))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Frames != 8 {
		t.Errorf("Frames = %d, want 8", result.Frames)
	}
	if len(result.Times) != 8 || math.Abs(result.Times[7]-0.08) > 1e-12 {
		t.Errorf("Times = %v, want 8 entries ending at 0.08", result.Times)
	}
	if got := len(result.Column("total_density")); got != 8 {
		t.Errorf("total_density series has %d samples, want 8", got)
	}
	if len(obs.frames) != 8 || obs.frames[7] != 7 {
		t.Errorf("observer saw frames %v", obs.frames)
	}
	if result.Metrics["total_density"] != total.Value() || total.Value() <= 0 {
		t.Errorf("final total_density = %v, metric = %v", result.Metrics["total_density"], total.Value())
	}
}

func TestSimulatorRun_NoScriptLeavesFluidStill(t *testing.T) {
	s, _ := NewFromConfig(smallConfig(0))
	s.AddMetric(metrics.NewKineticEnergy())

	result, err := s.Run(context.Background(), Config{Frames: 3, Iterations: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range result.Column("kinetic_energy") {
		if v != 0 {
			t.Errorf("kinetic_energy[%d] = %v, want 0", i, v)
		}
	}
}

func TestSimulatorRun_RejectsZeroFrames(t *testing.T) {
	s, _ := NewFromConfig(smallConfig(0))
	if _, err := s.Run(context.Background(), Config{}, nil); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Run() error = %v, want ErrNoFrames", err)
	}
}

func TestSimulatorRun_Cancelled(t *testing.T) {
	s, _ := NewFromConfig(smallConfig(0))
	ctx, cancel := context.WithCancel(context.Background())

	stopAt := ScriptFunc(func(frame int, p *input.Painter) {
		if frame == 2 {
			cancel()
		}
	})

	result, err := s.Run(ctx, Config{Frames: 100, Iterations: 1}, stopAt)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result.Frames != 3 {
		t.Errorf("Frames = %d, want 3 (cancel is seen before frame 3)", result.Frames)
	}
}

func TestSimulatorRun_Instability(t *testing.T) {
	s, _ := NewFromConfig(smallConfig(0))
	poison := ScriptFunc(func(frame int, p *input.Painter) {
		if frame == 4 {
			s.Fluid().AddDensity(12, 12, 1, math.NaN())
		}
	})

	g := NewWithT(t)
	result, err := s.Run(context.Background(), Config{Frames: 10, Iterations: 1, ValidateState: true}, poison)

	g.Expect(err).To(MatchError(fluid.ErrUnstable))
	var ie *fluid.InstabilityError
	g.Expect(errors.As(err, &ie)).To(BeTrue())
	g.Expect(ie.Frame).To(Equal(4))
	g.Expect(ie.Field).To(Equal("density"))
	g.Expect(result.Frames).To(Equal(5))
}

func TestEnsemble(t *testing.T) {
	jobs := []Job{
		{Name: "still", Config: smallConfig(4)},
		{Name: "drag", Config: smallConfig(6), Script: ScriptFunc(drag)},
	}
	results, err := NewEnsemble(jobs, nil).Run(context.Background())

	g := NewWithT(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(2))
	g.Expect(results[0].Frames).To(Equal(4))
	g.Expect(results[1].Frames).To(Equal(6))
	g.Expect(results[0].Metrics["total_density"]).To(BeZero())
	g.Expect(results[1].Metrics["total_density"]).To(BeNumerically(">", 0))
}

func TestEnsemble_InvalidConfig(t *testing.T) {
	bad := smallConfig(3)
	bad.Fluid.Size = 1
	_, err := NewEnsemble([]Job{{Name: "bad", Config: bad}}, nil).Run(context.Background())
	if !errors.Is(err, fluid.ErrGridTooSmall) {
		t.Errorf("Run() error = %v, want ErrGridTooSmall", err)
	}
}
