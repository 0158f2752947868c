package sim

import "sync/atomic"

// Stats counts simulation activity across sessions. Safe for concurrent use;
// a nil *Stats discards everything.
type Stats struct {
	Frames      int64
	Spawned     int64
	Retired     int64
	Collisions  int64
	Restarts    int64
	Sessions    int64 // sessions currently attached to a driver or terminal
	TotalStepNs int64
}

func (s *Stats) AddFrame(ns int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.Frames, 1)
	atomic.AddInt64(&s.TotalStepNs, ns)
}

func (s *Stats) AddSpawned() {
	if s != nil {
		atomic.AddInt64(&s.Spawned, 1)
	}
}

func (s *Stats) AddRetired(n int) {
	if s != nil && n > 0 {
		atomic.AddInt64(&s.Retired, int64(n))
	}
}

func (s *Stats) AddCollision() {
	if s != nil {
		atomic.AddInt64(&s.Collisions, 1)
	}
}

func (s *Stats) AddRestart() {
	if s != nil {
		atomic.AddInt64(&s.Restarts, 1)
	}
}

// SessionStarted and SessionClosed track live sessions.
func (s *Stats) SessionStarted() {
	if s != nil {
		atomic.AddInt64(&s.Sessions, 1)
	}
}

func (s *Stats) SessionClosed() {
	if s != nil {
		atomic.AddInt64(&s.Sessions, -1)
	}
}

// Snapshot returns a read-only copy for HTTP output.
func (s *Stats) Snapshot() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	frames := atomic.LoadInt64(&s.Frames)
	total := atomic.LoadInt64(&s.TotalStepNs)
	var avgMs float64
	if frames > 0 {
		avgMs = float64(total) / float64(frames) / 1e6
	}
	return map[string]any{
		"frames":          frames,
		"spawned":         atomic.LoadInt64(&s.Spawned),
		"retired":         atomic.LoadInt64(&s.Retired),
		"collisions":      atomic.LoadInt64(&s.Collisions),
		"restarts":        atomic.LoadInt64(&s.Restarts),
		"active_sessions": atomic.LoadInt64(&s.Sessions),
		"avg_step_ms":     avgMs,
	}
}
