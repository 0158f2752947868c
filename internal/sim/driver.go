package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/lanerunner/internal/config"
)

// ControlsSource supplies the controls held for the next frame.
type ControlsSource interface {
	Controls() Controls
}

// HeldControls is a ControlsSource written by an input goroutine and read by
// the driver.
type HeldControls struct {
	mu sync.Mutex
	c  Controls
}

// Set replaces the held controls.
func (h *HeldControls) Set(c Controls) {
	h.mu.Lock()
	h.c = c
	h.mu.Unlock()
}

// Controls returns the held controls.
func (h *HeldControls) Controls() Controls {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.c
}

// Sink receives every frame the driver produces. Returning an error stops
// the driver. Deliver runs on the driver goroutine and must not call Stop.
type Sink interface {
	Deliver(f Frame) error
}

// Driver steps a Simulation on a ticker until the session ends, the context
// is cancelled or Stop is called.
type Driver struct {
	sim      *Simulation
	input    ControlsSource
	sink     Sink
	interval time.Duration
	log      *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewDriver creates a stopped driver. A zero interval uses config.TargetFrameTime.
func NewDriver(s *Simulation, input ControlsSource, sink Sink, interval time.Duration, log *zap.SugaredLogger) *Driver {
	if interval <= 0 {
		interval = config.TargetFrameTime
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	closed := make(chan struct{})
	close(closed)
	return &Driver{
		sim:      s,
		input:    input,
		sink:     sink,
		interval: interval,
		log:      log,
		done:     closed,
	}
}

// Simulation returns the driven simulation.
func (d *Driver) Simulation() *Simulation {
	return d.sim
}

// Start launches the tick loop. It does nothing if the loop is already
// running or the session has ended.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running || d.sim.Ended() {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.running = true
	d.cancel = cancel
	d.done = done
	d.err = nil

	go d.run(ctx, done)
}

// Stop halts the tick loop and waits for it to exit. Safe to call repeatedly.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	done := d.done
	d.mu.Unlock()

	<-done
}

// Restart stops the loop, starts a new session and runs it.
func (d *Driver) Restart(ctx context.Context) {
	d.Stop()
	d.sim.Restart()
	d.log.Infow("session restarted", "seed", d.sim.Seed())
	d.Start(ctx)
}

// Running reports whether the tick loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Done is closed when the current tick loop exits.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Err returns the sink error that stopped the last loop, if any.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Tick runs exactly one frame and delivers it. It returns false when no
// further frames should follow: the session ended or the sink failed.
// Use it only when the driver loop is not running.
func (d *Driver) Tick(dt time.Duration) bool {
	frame, ok := d.sim.Step(dt, d.input.Controls())
	if !ok {
		return false
	}

	if err := d.sink.Deliver(frame); err != nil {
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
		d.log.Warnw("frame delivery failed", "seq", frame.Seq, "error", err)
		return false
	}

	if frame.GameOver {
		d.log.Infow("game over", "final_score", frame.FinalScore, "frames", frame.Seq)
		return false
	}
	return true
}

func (d *Driver) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		d.mu.Lock()
		if d.done == done {
			d.running = false
			d.cancel()
		}
		d.mu.Unlock()
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !d.Tick(dt) {
				return
			}
		}
	}
}
