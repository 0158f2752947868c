package loop

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/lanerunner/internal/draw"
	"github.com/tomz197/lanerunner/internal/input"
	"github.com/tomz197/lanerunner/internal/object"
	"github.com/tomz197/lanerunner/internal/sim"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

// syncBuffer is a bytes.Buffer safe to read while the client writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	r := bufio.NewReader(strings.NewReader(""))
	c := NewClient(r, io.Discard, Options{TermSizeFunc: fixedSize(100, 40), Seed: 3})
	t.Cleanup(func() { c.registry.Unregister(c.handle.ID) })
	return c
}

func TestFitViewport(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want viewport
	}{
		{"fits", 100, 40, viewport{cols: 100, rows: 40}},
		{"too wide", 200, 40, viewport{cols: 160, rows: 40, offCol: 20}},
		{"too tall", 100, 61, viewport{cols: 100, rows: 50, offRow: 5}},
		{"both", 170, 60, viewport{cols: 160, rows: 50, offCol: 5, offRow: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitViewport(tt.w, tt.h))
		})
	}
}

func TestClientFollowsResize(t *testing.T) {
	w, h := 100, 40
	c := newTestClient(t)
	c.state.termSizeFunc = func() (int, int, error) { return w, h, nil }

	c.updateScreen()
	assert.Equal(t, 100, c.canvas.TerminalWidth())

	w, h = 200, 60
	c.updateScreen()
	assert.Equal(t, 160, c.canvas.TerminalWidth())
	assert.Equal(t, 50, c.canvas.TerminalHeight())
	assert.Equal(t, 20, c.canvas.OffsetCol())
	assert.Equal(t, 5, c.canvas.OffsetRow())
}

func TestClientPlaysAndQuits(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}
	registry := NewRegistry(nil, nil)
	stats := &sim.Stats{}

	done := make(chan error, 1)
	go func() {
		done <- Run(bufio.NewReader(pr), out, Options{
			TermSizeFunc: fixedSize(100, 40),
			Registry:     registry,
			Stats:        stats,
			Username:     "tester",
		})
	}()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Press SPACE") }, 2*time.Second, 5*time.Millisecond)

	_, err := pw.Write([]byte(" "))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Score:") }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, registry.Count())

	_, err = pw.Write([]byte("q"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit")
	}
	assert.Zero(t, registry.Count())
	assert.Positive(t, stats.Snapshot()["frames"])
	assert.True(t, strings.HasSuffix(out.String(), "\033[H\033[2J\033[?25h"), "screen is cleared and cursor restored on exit")
}

func TestClientCrashAndRestart(t *testing.T) {
	c := newTestClient(t)
	c.state.delta = time.Second / 60

	c.state.Input = input.Input{Enter: true}
	c.updateStartState()
	require.Equal(t, GameStatePlaying, c.state.GameState)

	c.sim.Traffic.Cars = append(c.sim.Traffic.Cars, object.NewTrafficCar(1, 1, 0, 0, 0))
	c.state.Input = input.Input{}
	c.updatePlayingState()

	require.Equal(t, GameStateDead, c.state.GameState)
	assert.True(t, c.sim.Ended())
	assert.Len(t, c.state.particles, crashParticles)
	assert.Equal(t, crashBlinkSeconds, c.state.crashTimer)

	c.updateDeadState()
	assert.Equal(t, GameStateDead, c.state.GameState, "waits for a key")
	assert.Less(t, c.state.crashTimer, crashBlinkSeconds)

	c.state.Input = input.Input{Space: true}
	c.updateDeadState()
	assert.Equal(t, GameStatePlaying, c.state.GameState)
	assert.False(t, c.sim.Ended())
	assert.Empty(t, c.sim.Traffic.Cars)
	assert.Empty(t, c.state.particles)
}

func TestClientRestartWhilePlaying(t *testing.T) {
	c := newTestClient(t)
	c.state.delta = time.Second / 60
	c.startGame()

	c.state.Input = input.Input{Up: true}
	for i := 0; i < 30; i++ {
		c.updatePlayingState()
	}
	require.Positive(t, c.sim.Player.Position.Z)

	c.state.Input = input.Input{Restart: true}
	c.updatePlayingState()
	assert.Zero(t, c.sim.Player.Position.Z)
	assert.Equal(t, GameStatePlaying, c.state.GameState)
}

func TestClientShutdownCountdown(t *testing.T) {
	c := newTestClient(t)
	c.handle.Events <- EventServerShutdown
	c.processEvents()
	require.Equal(t, GameStateShutdown, c.state.GameState)

	c.state.delta = time.Duration(float64(time.Second) * 11)
	c.updateShutdownState()
	assert.False(t, c.state.Running)
}

func TestClientDrawsEveryState(t *testing.T) {
	c := newTestClient(t)
	var out bytes.Buffer
	c.chunkWriter = draw.NewChunkWriter(&out, 0, 0)

	states := []GameState{GameStateStart, GameStatePlaying, GameStateDead, GameStateShutdown}
	for _, s := range states {
		c.state.GameState = s
		require.NoError(t, c.drawFrame())
	}
	c.state.GameState = GameStateStart
	c.state.isInactive = true
	require.NoError(t, c.drawFrame())

	text := out.String()
	for _, want := range []string{"Controls", "Score:", "Final score:", "SERVER SHUTTING DOWN", "INACTIVITY WARNING"} {
		assert.Contains(t, text, want)
	}
}

func TestRegistryShutdown(t *testing.T) {
	r := NewRegistry(nil, nil)
	a := r.Register("a")
	b := r.Register("b")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Count())

	go func() {
		for _, h := range []*Handle{a, b} {
			<-h.Events
			r.Unregister(h.ID)
		}
	}()

	start := time.Now()
	r.Shutdown(5 * time.Second)
	assert.Zero(t, r.Count())
	assert.Less(t, time.Since(start), 5*time.Second)

	r.Unregister(a.ID)
}

func TestRegistryShutdownTimesOut(t *testing.T) {
	r := NewRegistry(nil, nil)
	r.Register("stuck")

	start := time.Now()
	r.Shutdown(50 * time.Millisecond)
	assert.Equal(t, 1, r.Count())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
