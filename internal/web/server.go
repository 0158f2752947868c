// Package web streams simulation frames to browsers over websockets. Each
// connection gets its own Simulation and Driver; the browser sends held
// controls and restart requests back.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/sim"
)

// Message is a browser-to-server message.
//
//	{"type":"input","accelerate":true,"steerLeft":false,...}
//	{"type":"restart"}
type Message struct {
	Type string `json:"type"`
	sim.Controls
}

// Options configures a Server.
type Options struct {
	Stats    *sim.Stats
	Logger   *zap.SugaredLogger
	Interval time.Duration // frame interval; zero uses the default frame time
	Seed     int64         // non-zero gives every connection this seed
	Origins  []string      // allowed Origin hosts; empty allows any
}

// Server hosts websocket game sessions.
type Server struct {
	stats    *sim.Stats
	log      *zap.SugaredLogger
	interval time.Duration
	seed     int64
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active atomic.Int64
	nextID atomic.Int64
}

// NewServer creates a server. Call Close to end all sessions.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		stats:    opts.Stats,
		log:      log,
		interval: opts.Interval,
		seed:     opts.Seed,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.Origins),
	}
	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, host := range allowed {
			if strings.HasSuffix(origin, "://"+host) {
				return true
			}
		}
		return false
	}
}

// Handler returns a mux serving /ws, /metrics and /healthz.
func (s *Server) Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/metrics", s.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Active returns the number of open game connections.
func (s *Server) Active() int {
	return int(s.active.Load())
}

// HandleWS upgrades the request and runs a game session on it.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := s.nextID.Add(1)
	log := s.log.With("conn", id, "remote", r.RemoteAddr)

	game := sim.New(sim.Options{Seed: s.seed, Stats: s.stats})
	held := &sim.HeldControls{}
	conn := newConn(ws)
	driver := sim.NewDriver(game, held, conn, s.interval, log)

	s.wg.Add(1)
	s.active.Add(1)
	s.stats.SessionStarted()
	log.Infow("session connected", "seed", game.Seed(), "active", s.Active())

	go conn.writePump()
	driver.Start(s.ctx)

	go func() {
		defer s.wg.Done()
		s.readPump(conn, driver, held, log)

		conn.Close()
		driver.Stop()
		s.active.Add(-1)
		s.stats.SessionClosed()
		log.Infow("session disconnected",
			"final_score", game.LastFrame().FinalScore,
			"dropped_frames", conn.Dropped(),
			"active", s.Active())
	}()
}

// readPump applies browser messages until the socket fails or the server
// closes.
func (s *Server) readPump(conn *Conn, driver *sim.Driver, held *sim.HeldControls, log *zap.SugaredLogger) {
	ws := conn.ws
	ws.SetReadLimit(maxMessage)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := context.AfterFunc(s.ctx, conn.Close)
	defer stop()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("websocket read failed", "error", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Debugw("ignoring malformed message", "error", err)
			continue
		}
		switch strings.ToLower(msg.Type) {
		case "input":
			held.Set(msg.Controls)
		case "restart":
			held.Set(sim.Controls{})
			driver.Restart(s.ctx)
		default:
			log.Debugw("ignoring message", "type", msg.Type)
		}
	}
}

// HandleMetrics writes the simulation counters as JSON.
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"connections": s.Active(),
		"metrics":     s.stats.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// Close ends every session and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}
