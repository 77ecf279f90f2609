package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/export"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/logging"
	"github.com/san-kum/stablefluid/internal/render"
	"github.com/san-kum/stablefluid/internal/sim"
)

const (
	historyCapacity = 300
	sidebarWidth    = 40
	headerLines     = 1
)

type TickMsg time.Time

// Model owns the fluid for the lifetime of the program. Every mutation
// happens inside Update, on the Bubble Tea event loop.
type Model struct {
	fluid      *fluid.Fluid
	painter    *input.Painter
	script     sim.Script
	cm         render.Colormap
	iterations int
	fps        int

	frame      int
	running    bool
	showHelp   bool
	cursorX    int
	cursorY    int
	penDown    bool
	mouseDown  bool
	termWidth  int
	termHeight int

	densityHist []float64
	energyHist  []float64

	recorder *export.Recorder
	message  string
}

// NewModel builds a live view over a fresh fluid. script, when non-nil,
// drives the pointer whenever neither the mouse nor the keyboard brush is
// active.
func NewModel(cfg *config.Config, script sim.Script) (Model, error) {
	f, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return Model{}, err
	}
	return Model{
		fluid:       f,
		painter:     input.NewPainter(f, cfg.Brush),
		script:      script,
		cm:          render.NewColormap(cfg.Render),
		iterations:  cfg.Fluid.Iterations,
		fps:         max(cfg.Render.FPS, 1),
		running:     true,
		cursorX:     f.Size() / 2,
		cursorY:     f.Size() / 2,
		termWidth:   80,
		termHeight:  24,
		densityHist: make([]float64, 0, historyCapacity),
		energyHist:  make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// step is the size of the grid block drawn per terminal column.
func (m Model) step() int {
	cols := max(m.termWidth-sidebarWidth, 8)
	rows := max(m.termHeight-headerLines-1, 4) * 2
	n := m.fluid.Size()
	s := max((n+cols-1)/cols, (n+rows-1)/rows)
	return max(s, 1)
}

// cellAt maps a terminal position inside the heatmap to a grid cell.
func (m Model) cellAt(col, row int) (x, y int, ok bool) {
	s := m.step()
	x = col * s
	y = (row - headerLines) * 2 * s
	n := m.fluid.Size()
	if row < headerLines || x < 0 || x >= n || y < 0 || y >= n {
		return 0, 0, false
	}
	return x, y, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress, tea.MouseActionMotion:
		if x, y, ok := m.cellAt(msg.X, msg.Y); ok {
			m.mouseDown = true
			m.painter.Held(x, y)
		}
	case tea.MouseActionRelease:
		m.mouseDown = false
		m.painter.Released()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	move := max(m.fluid.Size()/32, 1)
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.fluid.Reset()
		m.painter.Released()
		m.densityHist = m.densityHist[:0]
		m.energyHist = m.energyHist[:0]
		m.frame = 0
		m.message = "reset"
	case "enter":
		m.penDown = !m.penDown
		if !m.penDown {
			m.painter.Released()
		}
	case "left", "h":
		m.cursorX = max(m.cursorX-move, 0)
	case "right", "l":
		m.cursorX = min(m.cursorX+move, m.fluid.Size()-1)
	case "up", "k":
		m.cursorY = max(m.cursorY-move, 0)
	case "down", "j":
		m.cursorY = min(m.cursorY+move, m.fluid.Size()-1)
	case "g":
		m.toggleRecording()
	case "s":
		m.snapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = export.NewRecorder(m.cm, 2, 2, 100*2/m.fps+1)
		m.message = "recording"
		return
	}
	path := "stablefluid.gif"
	if err := m.recorder.Save(path); err != nil {
		m.message = "gif: " + err.Error()
		logging.Logger().Error("gif save failed", "err", err)
	} else {
		m.message = fmt.Sprintf("saved %s (%d frames)", path, m.recorder.Len())
	}
	m.recorder = nil
}

func (m *Model) snapshot() {
	path := fmt.Sprintf("stablefluid_%04d.png", m.frame)
	if err := export.SavePNG(path, m.fluid.Density(), m.cm, 4); err != nil {
		m.message = "png: " + err.Error()
		return
	}
	m.message = "saved " + path
}

// advance runs one frame: brush input, Step, then bookkeeping.
func (m *Model) advance() {
	switch {
	case m.mouseDown:
	case m.penDown:
		m.painter.Held(m.cursorX, m.cursorY)
	case m.script != nil:
		m.script.Apply(m.frame, m.painter)
	}

	m.fluid.Step(m.iterations)
	m.frame++

	if err := m.fluid.CheckFinite(); err != nil {
		logging.Logger().Warn("fluid went non-finite, resetting", "frame", m.frame, "err", err)
		m.fluid.Reset()
		m.message = "unstable: reset"
	}

	m.densityHist = pushHistory(m.densityHist, m.fluid.Density().Sum())
	m.energyHist = pushHistory(m.energyHist, m.fluid.KineticEnergy())

	if m.recorder != nil {
		m.recorder.Capture(m.fluid.Density())
	}
}

func pushHistory(h []float64, v float64) []float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return h
	}
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) View() string {
	status := statusRunning.Render("RUNNING")
	if !m.running {
		status = statusPaused.Render("PAUSED")
	}
	if m.recorder != nil {
		status += " " + statusRecording.Render("● REC")
	}
	header := headerStyle.Render("STABLE FLUID") + "  " + status

	heat := Heatmap(m.fluid.Density(), m.cm, m.step())

	var s strings.Builder
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.frame)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", float64(m.frame)*m.fluid.Dt())) + "\n")
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%d×%d", m.fluid.Size(), m.fluid.Size())) + "\n")
	brush := "off"
	if m.penDown {
		brush = fmt.Sprintf("(%d, %d)", m.cursorX, m.cursorY)
	}
	s.WriteString(labelStyle.Render("Brush") + valueStyle.Render(brush) + "\n\n")

	if len(m.densityHist) > 1 {
		chart := asciigraph.Plot(m.densityHist, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Total density"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	if len(m.energyHist) > 0 {
		s.WriteString(labelStyle.Render("Energy") + SparklineChart(m.energyHist, 20) + "\n")
	}
	if m.message != "" {
		s.WriteString("\n" + valueStyle.Render(m.message) + "\n")
	}
	if m.showHelp {
		s.WriteString("\n" + helpStyle.Render("drag: paint  enter: brush  hjkl: move\nspace: pause  r: reset  g: gif  s: png  q: quit") + "\n")
	} else {
		s.WriteString("\n" + helpStyle.Render("? for help") + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, heat, statsStyle.Render(s.String()))
	return header + "\n" + body
}

// Run starts the live view and blocks until the user quits.
func Run(cfg *config.Config, script sim.Script) error {
	m, err := NewModel(cfg, script)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
