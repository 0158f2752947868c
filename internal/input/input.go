// Package input turns a raw terminal byte stream into held-key state.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/lanerunner/internal/object"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only report key repeats, so this has to bridge the repeat interval.
const keyHoldDuration = 150 * time.Millisecond

// Input is the held-key state for one frame.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Restart bool
	Pressed []byte // raw bytes received this frame
}

// Controls maps the held keys onto driving controls.
func (in Input) Controls() object.Controls {
	return object.Controls{
		Accelerate: in.Up,
		Brake:      in.Down,
		SteerLeft:  in.Left,
		SteerRight: in.Right,
	}
}

// Confirm reports whether a menu confirmation key is held.
func (in Input) Confirm() bool {
	return in.Space || in.Enter
}

// Active reports whether any key arrived this frame.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

type key int

const (
	keyNone key = iota
	keyQuit
	keyLeft
	keyRight
	keyUp
	keyDown
	keySpace
	keyEnter
	keyEscape
	keyRestart
	numKeys
)

// byteKeys maps single bytes to keys. Vim and WASD layouts both drive.
var byteKeys = [256]key{
	'q': keyQuit, 'Q': keyQuit, 0x03: keyQuit, // Ctrl+C
	'a': keyLeft, 'A': keyLeft, 'h': keyLeft, 'H': keyLeft,
	'd': keyRight, 'D': keyRight, 'l': keyRight, 'L': keyRight,
	'w': keyUp, 'W': keyUp, 'k': keyUp, 'K': keyUp,
	's': keyDown, 'S': keyDown, 'j': keyDown, 'J': keyDown,
	'r': keyRestart, 'R': keyRestart,
	' ':  keySpace,
	'\n': keyEnter, '\r': keyEnter,
	0x1b: keyEscape,
}

// arrowKeys maps the final byte of an ESC [ or ESC O arrow sequence.
var arrowKeys = map[byte]key{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
}

// Stream delivers input bytes through a channel filled by a reader
// goroutine, and remembers when each key was last seen.
type Stream struct {
	ch       chan byte
	lastSeen [numKeys]time.Time
	closed   bool
	now      func() time.Time
}

// StartStream spawns a goroutine that reads r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ResetKeyInput forgets every held key, so a key that started a game does
// not also steer in it.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.lastSeen = [numKeys]time.Time{}
}

// ReadInput drains the bytes received since the last call without blocking
// and returns the keys held at this moment.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.drain()

	for i := 0; i < len(buf); i++ {
		if buf[i] == 0x1b && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			if k, ok := arrowKeys[buf[i+2]]; ok {
				s.lastSeen[k] = now
				i += 2
				continue
			}
		}
		s.lastSeen[byteKeys[buf[i]]] = now
	}

	held := func(k key) bool { return now.Sub(s.lastSeen[k]) < keyHoldDuration }
	return Input{
		Quit:    held(keyQuit),
		Left:    held(keyLeft),
		Right:   held(keyRight),
		Up:      held(keyUp),
		Down:    held(keyDown),
		Space:   held(keySpace),
		Enter:   held(keyEnter),
		Escape:  held(keyEscape),
		Restart: held(keyRestart),
		Pressed: buf,
	}
}

func (s *Stream) drain() []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}
