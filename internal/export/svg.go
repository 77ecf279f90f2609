package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/stablefluid/internal/grid"
	"github.com/san-kum/stablefluid/internal/render"
)

// GridToSVG draws one rect per cell, coloured by cm. Runs of equal colour
// along a row are merged into a single rect.
func GridToSVG(g *grid.Grid, cm render.Colormap, cellSize float64) string {
	if g == nil {
		return ""
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	n := g.Size()
	side := float64(n) * cellSize

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, side, side, side, side))

	for y := 0; y < n; y++ {
		for x := 0; x < n; {
			c := cm.RGB(g.At(x, y))
			run := 1
			for x+run < n && cm.RGB(g.At(x+run, y)) == c {
				run++
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(x)*cellSize, float64(y)*cellSize, float64(run)*cellSize, cellSize, c.R, c.G, c.B))
			x += run
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline. Non-finite samples
// are skipped.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	type point struct{ X, Y float64 }
	points := make([]point, 0, len(values))
	for i := 0; i < len(times) && i < len(values); i++ {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		points = append(points, point{times[i], values[i]})
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
