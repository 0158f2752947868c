package draw

import (
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// textDirty marks a cell that a text overlay wrote over.
const textDirty rune = -1

// Canvas is a pixel buffer with two pixels per terminal cell, addressed in
// logical coordinates that are scaled onto the current terminal size.
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	cols, rows int
	pixels     []bool // cols * rows*2, row major
	shown      []rune // glyph on screen per cell; 0 is a blank screen

	logicalW, logicalH float64
	scaleX, scaleY     float64

	// 0-based cells skipped before the render area when the terminal is
	// larger than the maximum render size.
	offsetCol, offsetRow int

	out []byte
}

// NewCanvas creates an unscaled canvas: one logical unit per pixel.
func NewCanvas(cols, rows int) *Canvas {
	return NewScaledCanvas(cols, rows, float64(cols), float64(rows*2))
}

// NewScaledCanvas creates a canvas of cols x rows cells whose logical space
// is logicalW x logicalH pixels.
func NewScaledCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(max(cols, 0), max(rows, 0))
	return c
}

// Resize adapts the canvas to a new terminal size, keeping the logical space.
func (c *Canvas) Resize(cols, rows int) {
	if cols != c.cols || rows != c.rows || c.pixels == nil {
		c.cols, c.rows = cols, rows
		c.pixels = make([]bool, cols*rows*2)
		c.shown = make([]rune, cols*rows)
	}
	c.scaleX = float64(cols) / c.logicalW
	c.scaleY = float64(rows*2) / c.logicalH
}

// SetOffset places the render area at 0-based terminal cell (col, row).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol, c.offsetRow = col, row
}

// OffsetCol returns the render area column offset.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the render area row offset.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the render area width in cells.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the render area height in cells.
func (c *Canvas) TerminalHeight() int { return c.rows }

// ForceRedraw forgets what is on screen. Call it after clearing the terminal.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// MarkTextDirty records that length cells from the 1-based position
// (col, row) were overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	r := row - 1
	if r < 0 || r >= c.rows {
		return
	}
	from := max(col-1, 0)
	to := min(col-1+length, c.cols)
	for x := from; x < to; x++ {
		c.shown[r*c.cols+x] = textDirty
	}
}

// Clear unsets every pixel.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

func (c *Canvas) set(px, py int) {
	if px >= 0 && px < c.cols && py >= 0 && py < c.rows*2 {
		c.pixels[py*c.cols+px] = true
	}
}

// SetFloat lights the pixel at logical (x, y).
func (c *Canvas) SetFloat(x, y float64) {
	c.set(c.toPixel(x, y))
}

// DrawLine draws a line between two logical points.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		c.set(x1, y1)
		return
	}
	dx := float64(x2-x1) / float64(steps)
	dy := float64(y2-y1) / float64(steps)
	for i := 0; i <= steps; i++ {
		c.set(x1+int(math.Round(float64(i)*dx)), y1+int(math.Round(float64(i)*dy)))
	}
}

// DrawRect draws the axis-aligned rectangle spanning two logical corners.
func (c *Canvas) DrawRect(x0, y0, x1, y1 float64, filled bool) {
	if !filled {
		c.DrawLine(Point{x0, y0}, Point{x1, y0})
		c.DrawLine(Point{x1, y0}, Point{x1, y1})
		c.DrawLine(Point{x1, y1}, Point{x0, y1})
		c.DrawLine(Point{x0, y1}, Point{x0, y0})
		return
	}

	px0, py0 := c.toPixel(math.Min(x0, x1), math.Min(y0, y1))
	px1, py1 := c.toPixel(math.Max(x0, x1), math.Max(y0, y1))
	px0, py0 = max(px0, 0), max(py0, 0)
	px1, py1 = min(px1, c.cols-1), min(py1, c.rows*2-1)
	for py := py0; py <= py1; py++ {
		row := c.pixels[py*c.cols : (py+1)*c.cols]
		for px := px0; px <= px1; px++ {
			row[px] = true
		}
	}
}

// Render writes the cells that changed since the last Render. Cells that
// went dark are overwritten with a space.
func (c *Canvas) Render(w io.Writer) error {
	c.out = c.out[:0]
	for row := 0; row < c.rows; row++ {
		top := c.pixels[row*2*c.cols : (row*2+1)*c.cols]
		bottom := c.pixels[(row*2+1)*c.cols : (row*2+2)*c.cols]
		shown := c.shown[row*c.cols : (row+1)*c.cols]

		for col, prev := range shown {
			glyph := cellGlyph(top[col], bottom[col])
			if prev == 0 {
				prev = BlockEmpty
			}
			shown[col] = glyph
			if prev == glyph {
				continue
			}
			c.out = appendCursor(c.out, row+1+c.offsetRow, col+1+c.offsetCol)
			c.out = utf8.AppendRune(c.out, glyph)
		}
	}

	_, err := w.Write(c.out)
	return err
}

// RenderBorder frames the render area when the terminal has room around it:
// rules above and below for a row offset, bars at the sides for a column
// offset, corners when both apply.
func (c *Canvas) RenderBorder(w io.Writer) error {
	sides := c.offsetCol >= 1
	rules := c.offsetRow >= 1
	if !sides && !rules {
		return nil
	}

	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1
	rule := strings.Repeat("─", c.cols)

	var buf []byte
	if rules {
		from := c.offsetCol + 1
		upper, lower := rule, rule
		if sides {
			from = left
			upper, lower = "┌"+rule+"┐", "└"+rule+"┘"
		}
		buf = appendCursor(buf, top, from)
		buf = append(buf, upper...)
		buf = appendCursor(buf, bottom, from)
		buf = append(buf, lower...)
	}
	if sides {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.rows; row++ {
			buf = appendCursor(buf, row, left)
			buf = append(buf, "│"...)
			buf = appendCursor(buf, row, right)
			buf = append(buf, "│"...)
		}
	}

	_, err := w.Write(buf)
	return err
}
