// Package input turns pointer samples into fluid sources.
package input

import "github.com/san-kum/stablefluid/internal/config"

// Target receives the sources a Painter emits. *fluid.Fluid satisfies it.
type Target interface {
	AddDensity(x, y, radius int, amount float64)
	AddVelocity(x, y, radius int, ax, ay float64)
}

// Painter tracks one pointer. While it is held, each sample adds density at
// the pointer and pushes velocity along the displacement since the previous
// sample.
type Painter struct {
	target        Target
	radius        int
	amount        float64
	velocityScale float64

	prevX, prevY int
	tracking     bool
}

func NewPainter(target Target, brush config.Brush) *Painter {
	return &Painter{
		target:        target,
		radius:        brush.Radius,
		amount:        brush.Amount,
		velocityScale: brush.VelocityScale,
	}
}

// Held handles a "pointer held at (x, y)" sample. The first sample after a
// release only anchors the stroke.
func (p *Painter) Held(x, y int) {
	if !p.tracking {
		p.prevX, p.prevY, p.tracking = x, y, true
		return
	}
	dx := float64(x-p.prevX) * p.velocityScale
	dy := float64(y-p.prevY) * p.velocityScale
	p.target.AddDensity(x, y, p.radius, p.amount)
	p.target.AddVelocity(x, y, p.radius, dx, dy)
	p.prevX, p.prevY = x, y
}

// Released resets displacement tracking.
func (p *Painter) Released() {
	p.tracking = false
}

// Tracking reports whether a stroke is in progress.
func (p *Painter) Tracking() bool { return p.tracking }

// Retarget points the painter at a new fluid, e.g. after a reset, and drops
// any stroke in progress.
func (p *Painter) Retarget(target Target) {
	p.target = target
	p.tracking = false
}
