package loop

import (
	"time"

	"github.com/tomz197/lanerunner/internal/draw"
	"github.com/tomz197/lanerunner/internal/input"
	"github.com/tomz197/lanerunner/internal/object"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateDead                      // Crashed, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

// crashBlinkSeconds is how long the wrecked car blinks after a crash.
const crashBlinkSeconds = 2.0

// ClientState holds per-client presentation state. Simulation state lives
// in the client's sim.Simulation.
type ClientState struct {
	Input         input.Input
	View          object.Screen     // Viewport dimensions
	Camera        object.Camera     // World point drawn at the view focus
	GameState     GameState         // This client's game phase
	Running       bool              // Client loop running
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time
	crashTimer    float64           // Seconds of crash blink remaining
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	prevGameState GameState         // Game state drawn last frame
	wasInactive   bool              // Inactivity state drawn last frame

	particles []object.Object // Crash debris, render only
	toSpawn   []object.Object // Particles to add after the current update
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: -1,
		Running:       true,
	}
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (s *ClientState) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued objects and clears the queue.
func (s *ClientState) FlushSpawned() {
	s.particles = append(s.particles, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
}

// updateParticles advances crash debris and drops expired particles.
func (s *ClientState) updateParticles() {
	ctx := object.UpdateContext{Delta: s.delta, Spawner: s}

	kept := s.particles[:0] // reuse backing array
	for _, p := range s.particles {
		remove, err := p.Update(ctx)
		if remove || err != nil {
			object.ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
	s.FlushSpawned()
}

// clearParticles releases all debris.
func (s *ClientState) clearParticles() {
	for _, p := range s.particles {
		object.ReleaseObject(p)
	}
	clear(s.particles)
	s.particles = s.particles[:0]
}
