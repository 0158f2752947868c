package sim

import (
	"math"
	"time"

	"github.com/tomz197/lanerunner/internal/config"
)

// State is the lifecycle state of a session.
type State int

const (
	StateRunning State = iota
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Difficulty is the traffic pressure for a moment of the session.
type Difficulty struct {
	SpawnInterval    float64 // seconds between spawns
	BaseTrafficSpeed float64 // world units per frame
}

// DifficultyAt returns the difficulty after elapsed seconds of play.
// The spawn interval shrinks and the traffic speed grows linearly until
// they reach their limits.
func DifficultyAt(elapsed float64) Difficulty {
	return Difficulty{
		SpawnInterval:    math.Max(config.MinSpawnInterval, config.InitialSpawnInterval-elapsed*config.SpawnIntervalDecay),
		BaseTrafficSpeed: math.Min(config.MaxTrafficSpeed, config.InitialTrafficSpeed+elapsed*config.TrafficSpeedGrowth),
	}
}

// Score is the running score for a session: time survived, weighted by how
// fast the player is currently going in either direction.
func Score(elapsed, speed float64) int {
	return int(math.Floor(elapsed * config.ScorePerSecond * (1 + math.Abs(speed)*config.SpeedScoreFactor)))
}

// Session tracks the progress of one run from start to crash.
type Session struct {
	State      State
	Score      int
	FinalScore int // Score frozen at the moment the session ended
	StartTime  time.Time
	SpawnTimer float64    // seconds accumulated toward the next spawn
	Difficulty Difficulty // value computed at the end of the previous frame
}

// NewSession starts a running session at now.
func NewSession(now time.Time) Session {
	return Session{
		State:      StateRunning,
		StartTime:  now,
		Difficulty: DifficultyAt(0),
	}
}

// Running reports whether the session accepts frames.
func (s *Session) Running() bool {
	return s.State == StateRunning
}

// Elapsed returns the seconds since the session started.
func (s *Session) Elapsed(now time.Time) float64 {
	return now.Sub(s.StartTime).Seconds()
}

// End stops the session and freezes the score. Ending twice is a no-op.
func (s *Session) End() {
	if s.State == StateEnded {
		return
	}
	s.State = StateEnded
	s.FinalScore = s.Score
}
