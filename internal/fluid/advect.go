package fluid

import (
	"math"

	"github.com/san-kum/stablefluid/internal/grid"
)

// Advect moves d0 along (vx, vy) into d by tracing every interior cell
// backwards and sampling d0 bilinearly at the source point.
func Advect(b Boundary, d, d0, vx, vy *grid.Grid, dt float64) {
	n := d.Size()
	dt0 := dt * float64(n-2)
	hi := float64(n-2) + 0.5

	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			x := clampTrace(float64(i)-dt0*vx.At(i, j), float64(i), hi)
			y := clampTrace(float64(j)-dt0*vy.At(i, j), float64(j), hi)

			i0 := floorIndex(x, n)
			j0 := floorIndex(y, n)
			i1, j1 := i0+1, j0+1

			s1 := x - float64(i0)
			s0 := 1 - s1
			t1 := y - float64(j0)
			t0 := 1 - t1

			d.Set(i, j, s0*(t0*d0.At(i0, j0)+t1*d0.At(i0, j1))+
				s1*(t0*d0.At(i1, j0)+t1*d0.At(i1, j1)))
		}
	}
	SetBoundary(b, d)
}

// clampTrace keeps the interpolation footprint inside the grid. A NaN trace
// falls back to the cell itself.
func clampTrace(v, self, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return self
	case v < 0.5:
		return 0.5
	case v > hi:
		return hi
	}
	return v
}

func floorIndex(v float64, n int) int {
	return min(max(int(math.Floor(v)), 0), n-2)
}
