// Package export writes fluid frames and run series to image formats.
package export

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/stablefluid/internal/grid"
	"github.com/san-kum/stablefluid/internal/render"
)

// WritePNG renders g with cm, upscaled by scale, as a PNG.
func WritePNG(w io.Writer, g *grid.Grid, cm render.Colormap, scale int) error {
	return png.Encode(w, render.Scale(render.Frame(g, cm), scale))
}

func SavePNG(path string, g *grid.Grid, cm render.Colormap, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WritePNG(f, g, cm, scale); err != nil {
		return err
	}
	return f.Close()
}

// Recorder accumulates frames for an animated GIF.
type Recorder struct {
	cm     render.Colormap
	scale  int
	delay  int
	every  int
	seen   int
	frame  *image.RGBA
	frames []*image.Paletted
}

// NewRecorder captures every n-th frame offered to Capture. delay is in
// hundredths of a second, as GIF stores it.
func NewRecorder(cm render.Colormap, scale, every, delay int) *Recorder {
	return &Recorder{cm: cm, scale: max(scale, 1), every: max(every, 1), delay: max(delay, 1)}
}

func (r *Recorder) Capture(g *grid.Grid) {
	r.seen++
	if (r.seen-1)%r.every != 0 {
		return
	}
	if r.frame == nil || r.frame.Bounds().Dx() != g.Size() {
		r.frame = image.NewRGBA(image.Rect(0, 0, g.Size(), g.Size()))
	}
	render.FrameInto(r.frame, g, r.cm)
	scaled := render.Scale(r.frame, r.scale)

	img := image.NewPaletted(scaled.Bounds(), palette.Plan9)
	draw.Draw(img, img.Bounds(), scaled, image.Point{}, draw.Src)
	r.frames = append(r.frames, img)
}

func (r *Recorder) Len() int { return len(r.frames) }

// Encode writes the captured animation, looping forever.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		blank := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black})
		return gif.EncodeAll(w, &gif.GIF{Image: []*image.Paletted{blank}, Delay: []int{r.delay}})
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
