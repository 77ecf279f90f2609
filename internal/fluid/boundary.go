package fluid

import (
	"fmt"

	"github.com/san-kum/stablefluid/internal/grid"
)

// Boundary selects the wall condition applied to a field's border cells.
type Boundary int

const (
	// BoundaryDensity copies the adjacent interior value on every wall.
	BoundaryDensity Boundary = iota
	// BoundaryVelocityX negates on the left and right walls.
	BoundaryVelocityX
	// BoundaryVelocityY negates on the top and bottom walls.
	BoundaryVelocityY
)

func (b Boundary) String() string {
	switch b {
	case BoundaryDensity:
		return "density"
	case BoundaryVelocityX:
		return "velocity-x"
	case BoundaryVelocityY:
		return "velocity-y"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

func (b Boundary) Valid() bool {
	return b >= BoundaryDensity && b <= BoundaryVelocityY
}

// SetBoundary overwrites the border cells of x from its interior. Corners take
// the mean of their two neighbouring border cells.
func SetBoundary(b Boundary, x *grid.Grid) {
	if !b.Valid() {
		panic(fmt.Sprintf("fluid: unknown %v", b))
	}
	n := x.Size()

	for i := 1; i < n-1; i++ {
		top, bottom := x.At(i, 1), x.At(i, n-2)
		if b == BoundaryVelocityY {
			top, bottom = -top, -bottom
		}
		x.Set(i, 0, top)
		x.Set(i, n-1, bottom)
	}

	for j := 1; j < n-1; j++ {
		left, right := x.At(1, j), x.At(n-2, j)
		if b == BoundaryVelocityX {
			left, right = -left, -right
		}
		x.Set(0, j, left)
		x.Set(n-1, j, right)
	}

	x.Set(0, 0, 0.5*(x.At(1, 0)+x.At(0, 1)))
	x.Set(0, n-1, 0.5*(x.At(1, n-1)+x.At(0, n-2)))
	x.Set(n-1, 0, 0.5*(x.At(n-2, 0)+x.At(n-1, 1)))
	x.Set(n-1, n-1, 0.5*(x.At(n-2, n-1)+x.At(n-1, n-2)))
}
