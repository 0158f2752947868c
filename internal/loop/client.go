// Package loop runs a terminal session: input, simulation step and ANSI
// drawing on a fixed frame budget, one independent game per session.
package loop

import (
	"bufio"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/draw"
	"github.com/tomz197/lanerunner/internal/input"
	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/object"
	"github.com/tomz197/lanerunner/internal/sim"
)

const (
	crashParticles     = 24
	crashParticleSpeed = 12.0 // world units per second
	crashParticleLife  = 1.2  // seconds
)

// Client plays one game in one terminal.
type Client struct {
	sim         *sim.Simulation
	registry    *Registry
	handle      *Handle
	state       *ClientState
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter // frame output, flushed once per frame
	writer      io.Writer
	inputStream *input.Stream
	lastInput   time.Time
	log         *zap.SugaredLogger
}

// Options configures a client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Seed         int64      // 0 seeds from the wall clock
	Registry     *Registry  // nil creates a private registry
	Stats        *sim.Stats // optional shared counters
	Logger       *zap.SugaredLogger
}

// viewport is the part of the terminal the canvas occupies.
type viewport struct {
	cols, rows     int
	offCol, offRow int // 0-based cells before the render area
}

// fitViewport caps a terminal size at the maximum render size and centers
// the render area in what is left.
func fitViewport(termWidth, termHeight int) viewport {
	v := viewport{
		cols: min(termWidth, config.MaxTermWidth),
		rows: min(termHeight, config.MaxTermHeight),
	}
	v.offCol = (termWidth - v.cols) / 2
	v.offRow = (termHeight - v.rows) / 2
	return v
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(log, opts.Stats)
	}

	state := NewClientState()
	state.termSizeFunc = opts.TermSizeFunc
	state.View = object.Screen{Width: config.ViewWidth, Height: config.ViewHeight}

	termWidth, termHeight, _ := draw.TerminalSizeRawWith(state.termSizeFunc)
	vp := fitViewport(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(vp.cols, vp.rows, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(vp.offCol, vp.offRow)

	handle := registry.Register(opts.Username)
	s := sim.New(sim.Options{Seed: opts.Seed, Stats: opts.Stats})
	log = log.With("client", handle.ID, "user", opts.Username)
	log.Debugw("simulation created", "seed", s.Seed())

	c := &Client{
		sim:         s,
		registry:    registry,
		handle:      handle,
		state:       state,
		canvas:      canvas,
		chunkWriter: draw.NewChunkWriter(w, vp.offCol, vp.offRow),
		writer:      w,
		lastInput:   time.Now(),
		inputStream: input.StartStream(r),
		log:         log,
	}
	c.followPlayer()
	return c
}

// Run plays a single terminal session until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return NewClient(r, w, opts).Run()
}

// Run drives the session until the player quits, the input ends, the player
// idles out or a server shutdown countdown expires.
func (c *Client) Run() error {
	defer c.registry.Unregister(c.handle.ID)

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	last := time.Now()
	for c.state.Running {
		start := time.Now()
		if err := c.frame(start.Sub(last)); err != nil {
			return err
		}
		last = start

		if spent := time.Since(start); spent < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - spent)
		}
	}

	c.state.clearParticles()
	draw.ClearScreen(c.writer)
	return nil
}

// frame runs one input, update and draw pass.
func (c *Client) frame(delta time.Duration) error {
	c.state.delta = delta

	c.processInput()
	c.processEvents()
	c.updateScreen()

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateDead:
		c.updateDeadState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	return c.drawFrame()
}

// processInput reads held keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	idle := time.Since(c.lastInput).Seconds()
	switch {
	case c.state.Input.Active():
		c.lastInput = time.Now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.log.Infow("disconnecting idle session")
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.inputStream.Closed() {
		c.state.Running = false
	}
}

// processEvents handles notifications from the registry.
func (c *Client) processEvents() {
	for {
		select {
		case event := <-c.handle.Events:
			if event == EventServerShutdown && c.state.GameState != GameStateShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes. A changed layout clears the
// terminal so nothing is left outside the new render area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.state.termSizeFunc)
	if err != nil {
		return
	}
	vp := fitViewport(termWidth, termHeight)
	current := viewport{
		cols: c.canvas.TerminalWidth(), rows: c.canvas.TerminalHeight(),
		offCol: c.canvas.OffsetCol(), offRow: c.canvas.OffsetRow(),
	}
	if vp == current {
		return
	}

	draw.ClearScreen(c.writer)
	c.canvas.Resize(vp.cols, vp.rows)
	c.canvas.SetOffset(vp.offCol, vp.offRow)
	c.canvas.ForceRedraw()
	c.chunkWriter.SetOffset(vp.offCol, vp.offRow)
}

// updateStartState waits on the title screen for a start key.
func (c *Client) updateStartState() {
	if c.state.Input.Confirm() {
		c.startGame()
	}
}

// updatePlayingState steps the simulation with the held controls.
func (c *Client) updatePlayingState() {
	if c.state.Input.Restart {
		c.startGame()
		return
	}

	frame, ok := c.sim.Step(c.state.delta, c.state.Input.Controls())
	c.followPlayer()
	if !ok || !frame.GameOver {
		return
	}

	c.log.Infow("game over", "final_score", frame.FinalScore, "distance", int(frame.Player.Position.Z))
	object.SpawnCrash(c.sim.Player.Position, c.sim.Player.Speed, crashParticles, crashParticleSpeed, crashParticleLife, c.state)
	c.state.FlushSpawned()
	c.state.crashTimer = crashBlinkSeconds
	c.state.GameState = GameStateDead
}

// updateDeadState animates the wreck and waits for a restart key.
func (c *Client) updateDeadState() {
	c.state.updateParticles()
	if c.state.crashTimer > 0 {
		c.state.crashTimer -= c.state.delta.Seconds()
	}

	if c.state.Input.Confirm() || c.state.Input.Restart {
		c.startGame()
	}
}

// startGame begins a session from the title screen, after a crash or
// mid-run on restart.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.state.clearParticles()
	c.state.crashTimer = 0

	c.sim.Restart()
	c.followPlayer()
	c.log.Infow("session started", "seed", c.sim.Seed())

	c.state.GameState = GameStatePlaying
}

// updateShutdownState counts down to the forced disconnect.
func (c *Client) updateShutdownState() {
	c.state.updateParticles()
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// followPlayer centers the view on the road at the chase camera's depth, so
// the view eases like the camera rig does.
func (c *Client) followPlayer() {
	c.state.Camera = object.Camera{
		X: 0,
		Z: c.sim.Camera.Position.Z + config.CameraTrail,
	}
}
