package fluid

import "math"

// AddDensity adds amount to every cell within radius of (x, y).
func (f *Fluid) AddDensity(x, y, radius int, amount float64) {
	f.forEachInRadius(x, y, radius, func(i, j int) {
		f.density.Add(i, j, amount)
	})
}

// AddVelocity adds (ax, ay) to every cell within radius of (x, y).
func (f *Fluid) AddVelocity(x, y, radius int, ax, ay float64) {
	f.forEachInRadius(x, y, radius, func(i, j int) {
		f.vx.Add(i, j, ax)
		f.vy.Add(i, j, ay)
	})
}

// forEachInRadius visits the half-open box [x-r, x+r) x [y-r, y+r), clamped
// to the grid, keeping cells whose distance to (x, y) is at most r.
func (f *Fluid) forEachInRadius(x, y, radius int, fn func(i, j int)) {
	if radius < 0 {
		return
	}
	iLo, iHi := max(x-radius, 0), min(x+radius, f.size)
	jLo, jHi := max(y-radius, 0), min(y+radius, f.size)

	for i := iLo; i < iHi; i++ {
		for j := jLo; j < jHi; j++ {
			dx, dy := float64(i-x), float64(j-y)
			if math.Sqrt(dx*dx+dy*dy) <= float64(radius) {
				fn(i, j)
			}
		}
	}
}
