package fluid

import "github.com/san-kum/stablefluid/internal/grid"

// stencilWeight is the centre weight of the relaxation stencil. Kept at 6 to
// reproduce the reference behaviour; the textbook 2D value is 4.
const stencilWeight = 6.0

// LinSolve relaxes (c*x - a*laplacian-neighbours(x)) = x0 in place with
// Gauss-Seidel sweeps over the interior of x. The boundary is enforced after
// every sweep, and once even when iterations is zero.
func LinSolve(b Boundary, x, x0 *grid.Grid, a, c float64, iterations int) {
	n := x.Size()
	cRecip := 1.0 / c

	for k := 0; k < iterations; k++ {
		for j := 1; j < n-1; j++ {
			for i := 1; i < n-1; i++ {
				neighbours := x.At(i+1, j) + x.At(i-1, j) + x.At(i, j+1) + x.At(i, j-1)
				x.Set(i, j, (x0.At(i, j)+a*neighbours)*cRecip)
			}
		}
		SetBoundary(b, x)
	}

	if iterations <= 0 {
		SetBoundary(b, x)
	}
}

// Diffuse spreads x0 into x at the given rate using an implicit solve, which
// stays stable for any dt.
func Diffuse(b Boundary, x, x0 *grid.Grid, rate, dt float64, iterations int) {
	inner := float64(x.Size() - 2)
	a := dt * rate * inner * inner
	LinSolve(b, x, x0, a, 1+stencilWeight*a, iterations)
}
