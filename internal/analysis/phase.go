package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// Portrait pairs two metric series sample by sample.
type Portrait struct {
	XName, YName string
	Points       []Point
}

// NewPortrait zips xs and ys, truncating to the shorter and skipping
// non-finite pairs.
func NewPortrait(xName string, xs []float64, yName string, ys []float64) *Portrait {
	n := min(len(xs), len(ys))
	p := &Portrait{XName: xName, YName: yName, Points: make([]Point, 0, n)}
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		p.Points = append(p.Points, Point{xs[i], ys[i]})
	}
	return p
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (p *Portrait) bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return
}

// ASCII draws the portrait on a width x height character canvas with the
// first sample marked 'o' and the last '*'.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.bounds()
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(pt Point) (int, int) {
		col := int(math.Round((pt.X - minX) / rangeX * float64(width-1)))
		row := height - 1 - int(math.Round((pt.Y-minY)/rangeY*float64(height-1)))
		return row, col
	}
	for _, pt := range p.Points {
		row, col := cell(pt)
		canvas[row][col] = '•'
	}
	row, col := cell(p.Points[0])
	canvas[row][col] = 'o'
	row, col = cell(p.Points[len(p.Points)-1])
	canvas[row][col] = '*'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(strings.TrimRight(string(r), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
