// Package sim runs the lane runner simulation: traffic, difficulty, scoring
// and the fixed per-frame step order shared by every front end.
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/noise"
	"github.com/tomz197/lanerunner/internal/object"
)

// Controls is an alias for the object package's Controls type.
type Controls = object.Controls

// Clock supplies the wall time used for scoring and difficulty.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Options configure a Simulation. The zero value is usable.
type Options struct {
	Seed     int64  // 0 seeds from the wall clock
	Clock    Clock  // defaults to the system clock
	Stats    *Stats // optional shared counters
	Segments int    // road segments, defaults to config.NumSegments
}

// Simulation owns all mutable state of one game.
// It is not safe for concurrent use; one goroutine drives it.
type Simulation struct {
	Player  *object.PlayerCar
	Road    *object.Road
	Traffic *Traffic
	Session Session
	Camera  CameraRig

	seed  int64
	clock Clock
	stats *Stats
	seq   uint64
	last  Frame
}

// New creates a simulation with a running session.
func New(opts Options) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	segments := opts.Segments
	if segments == 0 {
		segments = config.NumSegments
	}

	rng := rand.New(rand.NewSource(seed))
	s := &Simulation{
		Player:  object.NewPlayerCar(),
		Road:    object.NewRoad(segments),
		Traffic: NewTraffic(rng, noise.New(rng), opts.Stats),
		Session: NewSession(clock.Now()),
		Camera:  NewCameraRig(),
		seed:    seed,
		clock:   clock,
		stats:   opts.Stats,
	}
	s.last = s.snapshot(nil)
	return s
}

// Seed returns the seed the spawn and drift randomness was built from.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Ended reports whether the session is over.
func (s *Simulation) Ended() bool {
	return !s.Session.Running()
}

// LastFrame returns the most recent frame.
func (s *Simulation) LastFrame() Frame {
	return s.last
}

// Step advances the simulation one frame. It returns the new frame and true,
// or the last frame and false once the session has ended.
//
// Order: player physics, camera, traffic (spawn, advance, retire, crash),
// HUD score, difficulty, road recycling.
func (s *Simulation) Step(dt time.Duration, c Controls) (Frame, bool) {
	if s.Ended() {
		return s.last, false
	}
	start := time.Now()

	ctx := object.UpdateContext{Delta: dt, Controls: c}
	_, _ = s.Player.Update(ctx) // player physics never fail

	s.Camera.Follow(s.Player.Position)

	retired, _ := s.Traffic.Update(dt.Seconds(), &s.Session, s.Player)

	now := s.clock.Now()
	elapsed := s.Session.Elapsed(now)
	if s.Session.Running() {
		s.Session.Score = Score(elapsed, s.Player.Speed)
	}

	s.Session.Difficulty = DifficultyAt(elapsed)

	ctx.PlayerZ = s.Player.Position.Z
	_, _ = s.Road.Update(ctx)

	s.seq++
	s.last = s.snapshot(retired)
	s.stats.AddFrame(time.Since(start).Nanoseconds())
	return s.last, true
}

// Restart begins a new session: the player returns to the origin, traffic
// is cleared, the road is re-tiled and score, timers and difficulty reset.
// It may be called while running or after the session ended.
func (s *Simulation) Restart() {
	s.Player.Reset()
	s.Traffic.Reset()
	s.Road.Reset()
	s.Session = NewSession(s.clock.Now())
	s.stats.AddRestart()
	s.last = s.snapshot(nil)
}

// HUDSpeed formats a speed for display.
func HUDSpeed(speed float64) string {
	return fmt.Sprintf("%.2f", math.Abs(speed)*100)
}

func (s *Simulation) snapshot(retired []string) Frame {
	cars := make([]CarView, len(s.Traffic.Cars))
	for i, car := range s.Traffic.Cars {
		cars[i] = CarView{
			ID:       car.ID,
			Position: car.Position,
			Paint:    car.Paint,
			Color:    object.PaintColor(car.Paint),
		}
	}

	return Frame{
		Seq: s.seq,
		Player: PlayerView{
			Position:   s.Player.Position,
			Speed:      s.Player.Speed,
			WheelAngle: s.Player.WheelAngle,
			Taillights: s.Player.Taillights(),
		},
		Camera:     s.Camera,
		Traffic:    cars,
		Retired:    retired,
		Segments:   s.Road.Offsets(),
		HUD:        HUD{Score: s.Session.Score, Speed: HUDSpeed(s.Player.Speed)},
		State:      s.Session.State,
		GameOver:   s.Ended(),
		FinalScore: s.Session.FinalScore,
	}
}
