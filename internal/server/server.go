// Package server streams the fluid to browsers over a websocket. One
// simulation goroutine owns the fluid; connections only exchange messages
// with it.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
	"github.com/san-kum/stablefluid/internal/logging"
	"github.com/san-kum/stablefluid/internal/render"
)

//go:embed static/index.html
var indexHTML []byte

const (
	EventHeld     = "held"
	EventReleased = "released"
	EventReset    = "reset"

	sendBuffer = 4
	writeWait  = 2 * time.Second
)

var ErrBadEvent = errors.New("server: malformed event")

// Event is the JSON message a browser sends.
type Event struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	switch ev.Type {
	case EventHeld, EventReleased, EventReset:
		return ev, nil
	}
	return Event{}, fmt.Errorf("%w: unknown type %q", ErrBadEvent, ev.Type)
}

// Hello is the first text message sent to a new client.
type Hello struct {
	Type  string `json:"type"`
	Size  int    `json:"size"`
	Scale int    `json:"scale"`
}

type client struct {
	id   int
	conn *websocket.Conn
	send chan []byte
}

type clientEvent struct {
	client *client
	event  Event
	joined bool
	left   bool
}

type Server struct {
	cfg      *config.Config
	fluid    *fluid.Fluid
	cm       render.Colormap
	upgrader websocket.Upgrader

	events chan clientEvent
	// done is closed when Run returns; nothing drains events after that.
	done chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
	nextID  int

	bufPool sync.Pool
}

func New(cfg *config.Config) (*Server, error) {
	f, err := fluid.NewFromConfig(cfg.Fluid)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		fluid: f,
		cm:    render.NewColormap(cfg.Render),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		events:  make(chan clientEvent, 256),
		done:    make(chan struct{}),
		clients: make(map[*client]struct{}),
		bufPool: sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.nextID++
	c := &client{id: s.nextID, conn: conn, send: make(chan []byte, sendBuffer)}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	logging.Logger().Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	hello, _ := json.Marshal(Hello{Type: "hello", Size: s.fluid.Size(), Scale: max(s.cfg.Render.Scale, 1)})
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		s.drop(c)
		conn.Close()
		return
	}

	if !s.emit(clientEvent{client: c, joined: true}) {
		s.drop(c)
		conn.Close()
		return
	}
	go s.writePump(c)
	s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.emit(clientEvent{client: c, left: true})
		s.drop(c)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			logging.Logger().Debug("ignoring event", "client", c.id, "err", err)
			continue
		}
		if !s.emit(clientEvent{client: c, event: ev}) {
			return
		}
	}
}

// emit queues ev for the simulation loop. It reports false once Run has
// stopped.
func (s *Server) emit(ev clientEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Server) writePump(c *client) {
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// drop unregisters c and closes its send queue. It is safe to call twice.
func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	logging.Logger().Info("client disconnected", "client", c.id)
}

func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Run is the simulation loop. It applies queued client events, steps the
// fluid and broadcasts a PNG of the density field once per tick, until ctx
// is cancelled. It must be called at most once.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)
	fps := max(s.cfg.Render.FPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	painters := make(map[*client]*input.Painter)
	frame := image.NewRGBA(image.Rect(0, 0, s.fluid.Size(), s.fluid.Size()))
	log := logging.Logger()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		case ce := <-s.events:
			s.apply(ce, painters)
		case <-ticker.C:
			s.drainEvents(painters)
			s.fluid.Step(s.cfg.Fluid.Iterations)
			if err := s.fluid.CheckFinite(); err != nil {
				log.Warn("fluid went non-finite, resetting", "err", err)
				s.fluid.Reset()
			}
			if s.Clients() > 0 {
				s.broadcast(frame)
			}
		}
	}
}

func (s *Server) drainEvents(painters map[*client]*input.Painter) {
	for {
		select {
		case ce := <-s.events:
			s.apply(ce, painters)
		default:
			return
		}
	}
}

func (s *Server) apply(ce clientEvent, painters map[*client]*input.Painter) {
	switch {
	case ce.joined:
		painters[ce.client] = input.NewPainter(s.fluid, s.cfg.Brush)
		return
	case ce.left:
		delete(painters, ce.client)
		return
	}
	p, ok := painters[ce.client]
	if !ok {
		return
	}
	switch ce.event.Type {
	case EventHeld:
		p.Held(ce.event.X, ce.event.Y)
	case EventReleased:
		p.Released()
	case EventReset:
		s.fluid.Reset()
		for _, other := range painters {
			other.Released()
		}
	}
}

func (s *Server) broadcast(frame *image.RGBA) {
	render.FrameInto(frame, s.fluid.Density(), s.cm)

	buf := s.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer s.bufPool.Put(buf)
	if err := png.Encode(buf, frame); err != nil {
		logging.Logger().Error("png encode failed", "err", err)
		return
	}
	data := bytes.Clone(buf.Bytes())

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client: skip this frame
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// ListenAndServe serves on addr and runs the simulation until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr, Handler: s.Handler()}

	simErr := make(chan error, 1)
	go func() { simErr <- s.Run(ctx) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logging.Logger().Info("serving", "addr", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-simErr
	return nil
}
