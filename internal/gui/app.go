// Package gui opens a desktop window that shows the density field at
// size x scale pixels and paints with the left mouse button.
package gui

import (
	"fmt"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/export"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/logging"
	"github.com/san-kum/stablefluid/internal/render"
)

var (
	ColText    = rl.NewColor(230, 230, 230, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
	ColShade   = rl.NewColor(0, 0, 0, 140)
)

const telemetryCapacity = 200

type App struct {
	fluid      *fluid.Fluid
	painter    *input.Painter
	cm         render.Colormap
	scale      int
	iterations int

	frame   *image.RGBA
	pixels  []color.RGBA
	texture rl.Texture2D

	running   bool
	showHUD   bool
	frames    int
	telemetry []float64
	recorder  *export.Recorder
	status    string
}

func initWindow(width, height, fps int) {
	rl.InitWindow(int32(width), int32(height), "stablefluid")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(cfg *config.Config) (*App, error) {
	f, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return nil, err
	}
	n := f.Size()
	a := &App{
		fluid:      f,
		painter:    input.NewPainter(f, cfg.Brush),
		cm:         render.NewColormap(cfg.Render),
		scale:      max(cfg.Render.Scale, 1),
		iterations: cfg.Fluid.Iterations,
		frame:      image.NewRGBA(image.Rect(0, 0, n, n)),
		pixels:     make([]color.RGBA, n*n),
		running:    true,
		showHUD:    true,
		telemetry:  make([]float64, 0, telemetryCapacity),
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	side := app.fluid.Size() * app.scale
	initWindow(side, side, max(cfg.Render.FPS, 1))
	defer rl.CloseWindow()

	app.loadTexture()
	defer rl.UnloadTexture(app.texture)

	logging.Logger().Info("gui started", "size", app.fluid.Size(), "scale", app.scale)
	app.RunLoop()
	return nil
}

func (a *App) loadTexture() {
	render.FrameInto(a.frame, a.fluid.Density(), a.cm)
	img := rl.NewImageFromImage(a.frame)
	a.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(a.texture, rl.FilterPoint)
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances one frame. It returns false when the
// user asked to quit.
func (a *App) Update() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return false
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyR):
		a.fluid.Reset()
		a.painter.Released()
		a.telemetry = a.telemetry[:0]
		a.status = "reset"
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyG):
		a.toggleRecording()
	case rl.IsKeyPressed(rl.KeyS):
		path := fmt.Sprintf("stablefluid_%04d.png", a.frames)
		if err := export.SavePNG(path, a.fluid.Density(), a.cm, a.scale); err != nil {
			a.status = err.Error()
		} else {
			a.status = "saved " + path
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		x := int(rl.GetMouseX()) / a.scale
		y := int(rl.GetMouseY()) / a.scale
		a.painter.Held(x, y)
	} else {
		a.painter.Released()
	}

	if a.running {
		a.fluid.Step(a.iterations)
		a.frames++
		if err := a.fluid.CheckFinite(); err != nil {
			logging.Logger().Warn("fluid went non-finite, resetting", "frame", a.frames, "err", err)
			a.fluid.Reset()
			a.status = "unstable: reset"
		}
		a.pushTelemetry(a.fluid.KineticEnergy())
		if a.recorder != nil {
			a.recorder.Capture(a.fluid.Density())
		}
	}
	return true
}

func (a *App) pushTelemetry(v float64) {
	a.telemetry = append(a.telemetry, v)
	if len(a.telemetry) > telemetryCapacity {
		a.telemetry = a.telemetry[1:]
	}
}

func (a *App) toggleRecording() {
	if a.recorder == nil {
		a.recorder = export.NewRecorder(a.cm, 1, 2, 3)
		a.status = "recording"
		return
	}
	if err := a.recorder.Save("stablefluid.gif"); err != nil {
		a.status = err.Error()
	} else {
		a.status = fmt.Sprintf("saved stablefluid.gif (%d frames)", a.recorder.Len())
	}
	a.recorder = nil
}

func (a *App) Draw() {
	render.FrameInto(a.frame, a.fluid.Density(), a.cm)
	for i := range a.pixels {
		p := a.frame.Pix[4*i : 4*i+4 : 4*i+4]
		a.pixels[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	rl.UpdateTexture(a.texture, a.pixels)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawTextureEx(a.texture, rl.NewVector2(0, 0), 0, float32(a.scale), rl.White)
	if a.showHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	side := int32(a.fluid.Size() * a.scale)
	rl.DrawRectangle(0, 0, side, 28, ColShade)

	status := "RUNNING"
	if !a.running {
		status = "PAUSED"
	}
	if a.recorder != nil {
		status += "  REC"
	}
	rl.DrawText(fmt.Sprintf("%s  frame %d  %d FPS", status, a.frames, rl.GetFPS()), 8, 6, 16, ColText)
	if a.status != "" {
		rl.DrawText(a.status, 8, side-22, 14, ColTextDim)
	}
	a.DrawTelemetry(side)
}

func (a *App) DrawTelemetry(side int32) {
	if len(a.telemetry) < 2 {
		return
	}
	width, height := float32(side)/3, float32(40)
	rectX, rectY := float32(side)-width-8, float32(36)

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := rectX + float32(i)/float32(len(a.telemetry))*width
		py := rectY + height - float32((val-minVal)/(maxVal-minVal))*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColText)
	rl.DrawText(fmt.Sprintf("KE %.2e", a.telemetry[len(a.telemetry)-1]), int32(rectX), int32(rectY+height+4), 12, ColTextDim)
}
