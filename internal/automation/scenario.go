// Package automation scripts pointer strokes so runs can be reproduced
// without a human at the mouse.
package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stablefluid/internal/input"
)

var (
	ErrInvalidScenario = errors.New("automation: invalid scenario")
	ErrUnknownScenario = errors.New("automation: unknown scenario")
)

// Point is a position in grid-relative coordinates: (0,0) is the top-left
// cell and (1,1) the bottom-right.
type Point [2]float64

const (
	StrokeLine   = "line"
	StrokeCircle = "circle"
)

// Stroke holds the pointer down for frames [Start, End). A line stroke moves
// from From to To; a circle stroke orbits Center at Radius for Turns
// revolutions.
type Stroke struct {
	Kind   string  `yaml:"kind"`
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	From   Point   `yaml:"from"`
	To     Point   `yaml:"to"`
	Center Point   `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Turns  float64 `yaml:"turns"`
}

// Scenario is a named list of strokes. When Loop is positive the script
// repeats every Loop frames.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Loop        int      `yaml:"loop"`
	Strokes     []Stroke `yaml:"strokes"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func SaveScenario(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Validate() error {
	var errs []error
	if s.Loop < 0 {
		errs = append(errs, fmt.Errorf("loop must be non-negative, got %d", s.Loop))
	}
	for i, st := range s.Strokes {
		if st.Start < 0 || st.End <= st.Start {
			errs = append(errs, fmt.Errorf("stroke %d: need 0 <= start < end, got [%d, %d)", i, st.Start, st.End))
		}
		switch st.Kind {
		case "", StrokeLine:
		case StrokeCircle:
			if st.Radius <= 0 {
				errs = append(errs, fmt.Errorf("stroke %d: circle radius must be positive", i))
			}
		default:
			errs = append(errs, fmt.Errorf("stroke %d: unknown kind %q", i, st.Kind))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, errors.Join(errs...))
	}
	return nil
}

// Duration is the number of frames until the last stroke ends.
func (s *Scenario) Duration() int {
	d := 0
	for _, st := range s.Strokes {
		d = max(d, st.End)
	}
	return d
}

// position returns the relative pointer position for frame, which must lie
// in [Start, End).
func (st Stroke) position(frame int) Point {
	span := st.End - st.Start - 1
	t := 0.0
	if span > 0 {
		t = float64(frame-st.Start) / float64(span)
	}
	if st.Kind == StrokeCircle {
		turns := st.Turns
		if turns == 0 {
			turns = 1
		}
		angle := 2 * math.Pi * turns * t
		return Point{st.Center[0] + st.Radius*math.Cos(angle), st.Center[1] + st.Radius*math.Sin(angle)}
	}
	return Point{st.From[0] + (st.To[0]-st.From[0])*t, st.From[1] + (st.To[1]-st.From[1])*t}
}

// Player replays a scenario on a grid of a given size. It satisfies
// sim.Script.
type Player struct {
	scenario *Scenario
	size     int
	active   int
}

func (s *Scenario) Player(size int) *Player {
	return &Player{scenario: s, size: size, active: -1}
}

// Apply moves the painter for frame. Consecutive strokes are separated by a
// release so the jump between them does not register as velocity.
func (p *Player) Apply(frame int, painter *input.Painter) {
	if p.scenario.Loop > 0 {
		frame %= p.scenario.Loop
	}

	idx := -1
	for i, st := range p.scenario.Strokes {
		if frame >= st.Start && frame < st.End {
			idx = i
			break
		}
	}

	if idx != p.active {
		painter.Released()
		p.active = idx
	}
	if idx < 0 {
		return
	}

	pos := p.scenario.Strokes[idx].position(frame)
	painter.Held(p.toCell(pos[0]), p.toCell(pos[1]))
}

func (p *Player) toCell(v float64) int {
	c := int(math.Round(v * float64(p.size-1)))
	return min(max(c, 0), p.size-1)
}

var builtins = map[string]*Scenario{
	"swirl": {
		Name:        "swirl",
		Description: "pointer circles the centre twice, then rests",
		Loop:        300,
		Strokes: []Stroke{
			{Kind: StrokeCircle, Start: 0, End: 240, Center: Point{0.5, 0.5}, Radius: 0.25, Turns: 2},
		},
	},
	"cross": {
		Name:        "cross",
		Description: "a horizontal sweep followed by a vertical one",
		Loop:        160,
		Strokes: []Stroke{
			{Kind: StrokeLine, Start: 0, End: 60, From: Point{0.15, 0.5}, To: Point{0.85, 0.5}},
			{Kind: StrokeLine, Start: 80, End: 140, From: Point{0.5, 0.15}, To: Point{0.5, 0.85}},
		},
	},
	"jet": {
		Name:        "jet",
		Description: "short repeated pushes from the left wall",
		Loop:        20,
		Strokes: []Stroke{
			{Kind: StrokeLine, Start: 0, End: 15, From: Point{0.05, 0.5}, To: Point{0.3, 0.5}},
		},
	},
}

// Builtin returns a copy of a built-in scenario.
func Builtin(name string) (*Scenario, error) {
	s, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	c := *s
	c.Strokes = append([]Stroke(nil), s.Strokes...)
	return &c, nil
}

func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for k := range builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolve treats ref as a built-in name first and a YAML path otherwise.
// An empty ref yields an empty scenario.
func Resolve(ref string) (*Scenario, error) {
	if ref == "" || ref == "none" {
		return &Scenario{Name: "none"}, nil
	}
	if s, err := Builtin(ref); err == nil {
		return s, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("%w: %q is neither a built-in nor a file", ErrUnknownScenario, ref)
	}
	return LoadScenario(ref)
}
