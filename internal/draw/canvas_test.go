package draw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c *Canvas) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(&sb))
	return sb.String()
}

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)

	c.SetFloat(1, 0)
	c.SetFloat(1, 1)
	assert.Equal(t, "\033[1;2H█", render(t, c))

	// Same content, nothing to emit.
	c.Clear()
	c.SetFloat(1, 0)
	c.SetFloat(1, 1)
	assert.Empty(t, render(t, c))

	// Bottom half cleared.
	c.Clear()
	c.SetFloat(1, 0)
	assert.Equal(t, "\033[1;2H▀", render(t, c))

	// Cell emptied, erased with a space.
	c.Clear()
	assert.Equal(t, "\033[1;2H ", render(t, c))
}

func TestCanvasForceRedraw(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetFloat(0, 1)
	assert.Equal(t, "\033[1;1H▄", render(t, c))
	assert.Empty(t, render(t, c))

	c.ForceRedraw()
	assert.Equal(t, "\033[1;1H▄", render(t, c))
}

func TestCanvasOffsetAndScale(t *testing.T) {
	// 10 logical units map onto 5 terminal columns.
	c := NewScaledCanvas(5, 1, 10, 2)
	c.SetOffset(2, 3)
	c.SetFloat(4, 0)
	assert.Equal(t, "\033[4;5H▀", render(t, c))
}

func TestCanvasDrawRectFilled(t *testing.T) {
	c := NewCanvas(6, 3)
	c.DrawRect(1, 1, 4, 4, true)

	filled := 0
	for _, p := range c.pixels {
		if p {
			filled++
		}
	}
	assert.Equal(t, 16, filled, "4x4 pixel block")
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 1)
	assert.NotPanics(t, func() {
		c.SetFloat(-5, -5)
		c.SetFloat(50, 50)
		c.DrawLine(Point{X: -10, Y: -10}, Point{X: 10, Y: 10})
	})
}

func TestCanvasResizeKeepsLogicalSize(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 50)
	c.Resize(20, 10)

	assert.Equal(t, 20, c.TerminalWidth())
	assert.Equal(t, 10, c.TerminalHeight())

	// Logical 50 now lands on column 10 instead of 5.
	c.SetFloat(50, 0)
	assert.Equal(t, "\033[1;11H▀", render(t, c))
}

func TestCanvasDrawRectOutline(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawRect(4, 5, 0, 0, false)

	lit := 0
	for _, p := range c.pixels {
		if p {
			lit++
		}
	}
	assert.Equal(t, 18, lit, "5x6 pixel frame")
	assert.True(t, c.pixels[0])
	assert.False(t, c.pixels[2*5+2], "interior stays dark")
}

func TestRenderBorderSidesOnly(t *testing.T) {
	c := NewCanvas(2, 2)
	c.SetOffset(3, 0)

	var sb strings.Builder
	require.NoError(t, c.RenderBorder(&sb))
	assert.Equal(t, "\033[1;3H│\033[1;6H│\033[2;3H│\033[2;6H│", sb.String())
}

func TestChunkWriter(t *testing.T) {
	var out strings.Builder
	cw := NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "Score")
	cw.WriteString("\033[?25l")
	assert.Equal(t, len("\033[2;3HScore\033[?25l"), cw.Pending())
	assert.Empty(t, out.String(), "nothing written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3HScore\033[?25l", out.String())
	assert.Zero(t, cw.Pending())

	out.Reset()
	big := strings.Repeat("x", maxChunkSize*2+10)
	cw.SetOffset(0, 0)
	cw.WriteString(big)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String())
}

func TestTerminalSizeRawWith(t *testing.T) {
	w, h, err := TerminalSizeRawWith(func() (int, int, error) { return 80, 24, nil })
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
}

func TestRenderBorder(t *testing.T) {
	c := NewCanvas(2, 1)

	var none strings.Builder
	require.NoError(t, c.RenderBorder(&none))
	assert.Empty(t, none.String())

	c.SetOffset(1, 1)
	var sb strings.Builder
	require.NoError(t, c.RenderBorder(&sb))
	assert.Contains(t, sb.String(), "┌──┐")
	assert.Contains(t, sb.String(), "└──┘")
}

func TestCanvasMarkTextDirty(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetFloat(0, 0)
	require.NotEmpty(t, render(t, c))
	require.Empty(t, render(t, c))

	// Text over row 2, columns 2-3, plus out-of-range marks that are ignored.
	c.MarkTextDirty(2, 2, 2)
	c.MarkTextDirty(3, 9, 4)
	c.MarkTextDirty(-3, 1, 2)
	assert.Equal(t, "\033[2;2H \033[2;3H ", render(t, c))

	// Cell under the text that is still lit gets its block back.
	c.MarkTextDirty(1, 1, 1)
	assert.Equal(t, "\033[1;1H▀", render(t, c))
}
