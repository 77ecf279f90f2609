package automation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/input"
)

type event struct {
	held bool
	x, y int
}

type tape struct{ events []event }

func (t *tape) AddDensity(x, y, radius int, amount float64) {
	t.events = append(t.events, event{held: true, x: x, y: y})
}

func (t *tape) AddVelocity(x, y, radius int, ax, ay float64) {}

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range Builtins() {
		s, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q) error = %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Builtin(%q).Validate() = %v", name, err)
		}
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	a, _ := Builtin("cross")
	a.Strokes[0].Start = 99
	b, _ := Builtin("cross")
	if b.Strokes[0].Start != 0 {
		t.Error("Builtin shares stroke storage between callers")
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	if _, err := Builtin("tornado"); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Builtin(tornado) error = %v, want ErrUnknownScenario", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		s     Scenario
		valid bool
	}{
		{"empty", Scenario{}, true},
		{"line", Scenario{Strokes: []Stroke{{Start: 0, End: 5}}}, true},
		{"backwards", Scenario{Strokes: []Stroke{{Start: 5, End: 5}}}, false},
		{"negative start", Scenario{Strokes: []Stroke{{Start: -1, End: 5}}}, false},
		{"flat circle", Scenario{Strokes: []Stroke{{Kind: StrokeCircle, Start: 0, End: 5}}}, false},
		{"unknown kind", Scenario{Strokes: []Stroke{{Kind: "zigzag", Start: 0, End: 5}}}, false},
		{"negative loop", Scenario{Loop: -3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, valid want %v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Validate() = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestPlayer_LineStroke(t *testing.T) {
	s := &Scenario{Strokes: []Stroke{{Start: 2, End: 7, From: Point{0, 0.5}, To: Point{1, 0.5}}}}
	rec := &tape{}
	painter := input.NewPainter(rec, config.DefaultConfig().Brush)
	player := s.Player(11)

	for frame := 0; frame < 10; frame++ {
		player.Apply(frame, painter)
	}

	// Frame 2 anchors at x=0; frames 3..6 paint at 2.5, 5, 7.5, 10 rounded.
	g := NewWithT(t)
	g.Expect(rec.events).To(Equal([]event{
		{true, 3, 5}, {true, 5, 5}, {true, 8, 5}, {true, 10, 5},
	}))
	g.Expect(painter.Tracking()).To(BeFalse())
}

func TestPlayer_ReleasesBetweenStrokes(t *testing.T) {
	s := &Scenario{Strokes: []Stroke{
		{Start: 0, End: 2, From: Point{0, 0}, To: Point{0.1, 0}},
		{Start: 2, End: 4, From: Point{1, 1}, To: Point{0.9, 1}},
	}}
	rec := &tape{}
	painter := input.NewPainter(rec, config.DefaultConfig().Brush)
	player := s.Player(11)

	for frame := 0; frame < 4; frame++ {
		player.Apply(frame, painter)
	}
	// One paint per stroke: the first sample of each stroke only anchors.
	if len(rec.events) != 2 {
		t.Fatalf("events = %v, want 2", rec.events)
	}
	if rec.events[1].x != 9 || rec.events[1].y != 10 {
		t.Errorf("second stroke painted at %v", rec.events[1])
	}
}

func TestPlayer_Loop(t *testing.T) {
	s, _ := Builtin("jet")
	rec := &tape{}
	painter := input.NewPainter(rec, config.DefaultConfig().Brush)
	player := s.Player(64)

	for frame := 0; frame < 3*s.Loop; frame++ {
		player.Apply(frame, painter)
	}
	perLoop := s.Strokes[0].End - s.Strokes[0].Start - 1
	if len(rec.events) != 3*perLoop {
		t.Errorf("painted %d samples over three loops, want %d", len(rec.events), 3*perLoop)
	}
}

func TestPlayer_CircleStaysInGrid(t *testing.T) {
	s := &Scenario{Strokes: []Stroke{{Kind: StrokeCircle, Start: 0, End: 50, Center: Point{0.9, 0.9}, Radius: 0.5, Turns: 1}}}
	rec := &tape{}
	painter := input.NewPainter(rec, config.DefaultConfig().Brush)
	player := s.Player(32)
	for frame := 0; frame < 50; frame++ {
		player.Apply(frame, painter)
	}
	for _, e := range rec.events {
		if e.x < 0 || e.x > 31 || e.y < 0 || e.y > 31 {
			t.Fatalf("circle painted outside grid at %v", e)
		}
	}
}

func TestDuration(t *testing.T) {
	s, _ := Builtin("cross")
	if s.Duration() != 140 {
		t.Errorf("Duration() = %d, want 140", s.Duration())
	}
}

func TestLoadSaveResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wave.yaml")

	want := &Scenario{
		Name: "wave",
		Loop: 30,
		Strokes: []Stroke{
			{Kind: StrokeLine, Start: 0, End: 10, From: Point{0.1, 0.2}, To: Point{0.3, 0.4}},
		},
	}
	if err := SaveScenario(path, want); err != nil {
		t.Fatal(err)
	}

	g := NewWithT(t)
	got, err := Resolve(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(want))

	builtin, err := Resolve("swirl")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(builtin.Name).To(Equal("swirl"))

	none, err := Resolve("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(none.Strokes).To(BeEmpty())

	_, err = Resolve(filepath.Join(dir, "missing.yaml"))
	g.Expect(err).To(MatchError(ErrUnknownScenario))
}

func TestLoadScenario_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("strokes:\n  - start: 4\n    end: 1\n"), 0644)

	if _, err := LoadScenario(path); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("LoadScenario() error = %v, want ErrInvalidScenario", err)
	}
}
