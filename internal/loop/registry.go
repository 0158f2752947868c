package loop

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/sim"
)

// Event is a notification sent from the registry to a running client.
type Event int

const (
	EventServerShutdown Event = iota
)

// Handle identifies a registered client.
type Handle struct {
	ID       int
	Username string
	Events   chan Event
}

// Registry tracks the terminal sessions hosted by one process so they can be
// told about a shutdown and waited for. Each session runs its own simulation.
type Registry struct {
	mu      sync.RWMutex
	clients map[int]*Handle
	nextID  int
	log     *zap.SugaredLogger
	stats   *sim.Stats
}

// NewRegistry creates an empty registry. log and stats may be nil.
func NewRegistry(log *zap.SugaredLogger, stats *sim.Stats) *Registry {
	if log == nil {
		log = logging.Nop()
	}
	return &Registry{
		clients: make(map[int]*Handle),
		nextID:  1,
		log:     log,
		stats:   stats,
	}
}

// Register adds a client and returns its handle.
func (r *Registry) Register(username string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{
		ID:       r.nextID,
		Username: username,
		Events:   make(chan Event, 4),
	}
	r.nextID++
	r.clients[h.ID] = h
	r.stats.SessionStarted()
	r.log.Infow("session connected", "client", h.ID, "user", username, "active", len(r.clients))
	return h
}

// Unregister removes a client. Unknown ids are ignored.
func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.clients[id]
	if !ok {
		return
	}
	delete(r.clients, id)
	r.stats.SessionClosed()
	r.log.Infow("session disconnected", "client", id, "user", h.Username, "active", len(r.clients))
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Shutdown notifies all connected clients about the shutdown and waits for
// them to disconnect, up to the given timeout.
func (r *Registry) Shutdown(timeout time.Duration) {
	r.mu.RLock()
	for _, h := range r.clients {
		select {
		case h.Events <- EventServerShutdown:
		default:
		}
	}
	r.log.Infow("shutdown requested", "active", len(r.clients))
	r.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			r.log.Warnw("shutdown timed out", "active", r.Count())
			return
		case <-ticker.C:
		}
	}
}
