package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/lanerunner/internal/object"
)

type testStream struct {
	*Stream
	t time.Time
}

func newTestStream() *testStream {
	ts := &testStream{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	ts.Stream = &Stream{ch: make(chan byte, 128), now: func() time.Time { return ts.t }}
	return ts
}

func (ts *testStream) send(s string) {
	for i := 0; i < len(s); i++ {
		ts.ch <- s[i]
	}
}

func TestKeysMapToControls(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want object.Controls
	}{
		{"w accelerates", "w", object.Controls{Accelerate: true}},
		{"up arrow accelerates", "\x1b[A", object.Controls{Accelerate: true}},
		{"s brakes", "S", object.Controls{Brake: true}},
		{"down arrow brakes", "\x1b[B", object.Controls{Brake: true}},
		{"a steers left", "a", object.Controls{SteerLeft: true}},
		{"left arrow steers left", "\x1b[D", object.Controls{SteerLeft: true}},
		{"d steers right", "d", object.Controls{SteerRight: true}},
		{"application mode right arrow", "\x1bOC", object.Controls{SteerRight: true}},
		{"combination", "wd", object.Controls{Accelerate: true, SteerRight: true}},
		{"unmapped key", "x", object.Controls{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestStream()
			ts.send(tt.keys)
			in := ReadInput(ts.Stream)
			assert.Equal(t, tt.want, in.Controls())
			assert.Equal(t, []byte(tt.keys), in.Pressed)
		})
	}
}

func TestKeyHold(t *testing.T) {
	ts := newTestStream()
	ts.send("w")
	require.True(t, ReadInput(ts.Stream).Up)

	ts.t = ts.t.Add(keyHoldDuration / 2)
	in := ReadInput(ts.Stream)
	assert.True(t, in.Up, "still held between key repeats")
	assert.False(t, in.Active())

	ts.t = ts.t.Add(keyHoldDuration)
	assert.False(t, ReadInput(ts.Stream).Up)
}

func TestMenuKeys(t *testing.T) {
	ts := newTestStream()
	ts.send(" rq")
	in := ReadInput(ts.Stream)
	assert.True(t, in.Confirm())
	assert.True(t, in.Restart)
	assert.True(t, in.Quit)

	ResetKeyInput(ts.Stream)
	in = ReadInput(ts.Stream)
	assert.False(t, in.Confirm())
	assert.False(t, in.Restart)
	assert.False(t, in.Quit)

	assert.NotPanics(t, func() { ResetKeyInput(nil) })
}

func TestLoneEscape(t *testing.T) {
	ts := newTestStream()
	ts.send("\x1b")
	in := ReadInput(ts.Stream)
	assert.True(t, in.Escape)
	assert.Equal(t, object.Controls{}, in.Controls())
}

func TestStreamCloses(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("\r")))
	require.Eventually(t, func() bool {
		ReadInput(s)
		return s.Closed()
	}, time.Second, time.Millisecond)
}
