// Package render turns scalar grids into images.
package render

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/grid"
)

const frequency = 0.024

// Colormap maps a scalar to a colour along three phase-shifted sine waves.
type Colormap struct {
	MaxValue float64
}

func DefaultColormap() Colormap {
	return Colormap{MaxValue: config.DefaultMaxValue}
}

func NewColormap(r config.Render) Colormap {
	if r.MaxValue <= 0 {
		return DefaultColormap()
	}
	return Colormap{MaxValue: r.MaxValue}
}

func channel(t, phase float64) uint8 {
	v := math.Round(math.Sin(frequency*t+phase)*127 + 128)
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, v)))
}

// RGB colourises v. Non-finite values map to black.
func (c Colormap) RGB(v float64) color.RGBA {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return color.RGBA{A: 255}
	}
	scale := c.MaxValue
	if scale <= 0 {
		scale = config.DefaultMaxValue
	}
	t := v / scale
	return color.RGBA{
		R: channel(t, 0),
		G: channel(t, 2),
		B: channel(t, 4),
		A: 255,
	}
}

// Frame renders g at one pixel per cell: pixel (x, y) shows cell (x, y).
func Frame(g *grid.Grid, cm Colormap) *image.RGBA {
	n := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	FrameInto(img, g, cm)
	return img
}

// FrameInto renders g into dst, which must be at least g.Size() on each side.
func FrameInto(dst *image.RGBA, g *grid.Grid, cm Colormap) {
	n := g.Size()
	b := dst.Bounds()
	if b.Dx() < n || b.Dy() < n {
		panic("render: destination smaller than grid")
	}
	values := g.Values()
	ParallelFor(n, 16, func(start, end int) {
		for y := start; y < end; y++ {
			off := dst.PixOffset(b.Min.X, b.Min.Y+y)
			row := values[y*n : (y+1)*n]
			for x, v := range row {
				c := cm.RGB(v)
				p := dst.Pix[off+4*x : off+4*x+4 : off+4*x+4]
				p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
			}
		}
	})
}

// Scale upscales src by an integer factor with nearest-neighbour sampling.
func Scale(src image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
