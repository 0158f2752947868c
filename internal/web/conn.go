package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomz197/lanerunner/internal/sim"
)

const (
	sendQueueSize = 64
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
	maxMessage    = 4096
)

// ErrConnClosed is returned by Deliver once the connection is gone.
var ErrConnClosed = errors.New("connection closed")

// Conn is the write side of a browser connection. It implements sim.Sink:
// frames are encoded on the driver goroutine and queued for writePump.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	dropped int
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		closed: make(chan struct{}),
	}
}

// Deliver encodes a frame and queues it. A full queue drops the frame
// rather than stalling the tick loop; a game-over frame waits for room
// so the final score always reaches the browser.
func (c *Conn) Deliver(f sim.Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}

	if f.GameOver {
		select {
		case c.send <- b:
			return nil
		case <-c.closed:
			return ErrConnClosed
		}
	}

	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- b:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
	}
	return nil
}

// Dropped returns how many frames were discarded on a full queue.
func (c *Conn) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close stops writePump and closes the socket. Safe to call repeatedly.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
	})
}

// writePump drains the send queue to the socket and keeps the peer alive
// with pings. It exits on the first write error or on Close.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}
