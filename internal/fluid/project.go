package fluid

import "github.com/san-kum/stablefluid/internal/grid"

// Divergence writes the scaled divergence of (vx, vy) into the interior of
// out, using the same discretisation as Project.
func Divergence(vx, vy, out *grid.Grid) {
	n := vx.Size()
	scale := float64(n)
	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			d := (vx.At(i+1, j) - vx.At(i-1, j)) + (vy.At(i, j+1) - vy.At(i, j-1))
			out.Set(i, j, -0.5*d/scale)
		}
	}
}

// Project makes (vx, vy) mass conserving. p and div are scratch grids that
// are overwritten.
func Project(vx, vy, p, div *grid.Grid, iterations int) {
	n := vx.Size()
	scale := float64(n)

	Divergence(vx, vy, div)
	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			p.Set(i, j, 0)
		}
	}
	SetBoundary(BoundaryDensity, div)
	SetBoundary(BoundaryDensity, p)
	LinSolve(BoundaryDensity, p, div, 1, stencilWeight, iterations)

	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			vx.Add(i, j, -0.5*(p.At(i+1, j)-p.At(i-1, j))*scale)
			vy.Add(i, j, -0.5*(p.At(i, j+1)-p.At(i, j-1))*scale)
		}
	}
	SetBoundary(BoundaryVelocityX, vx)
	SetBoundary(BoundaryVelocityY, vy)
}
