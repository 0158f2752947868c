package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ANSI sequences used by the renderers.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize keeps each write under a typical 1500 byte MTU so frames
// stream smoothly over SSH.
const maxChunkSize = 1400

// appendCursor appends a 1-based cursor position sequence to buf.
func appendCursor(buf []byte, row, col int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

// ChunkWriter collects one frame of terminal output (canvas cells and HUD
// text) and writes it in MTU sized chunks on Flush.
type ChunkWriter struct {
	buf    []byte
	bufw   *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and
// offsetRow shift every WriteAt position, for a centered render area.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		buf:    make([]byte, 0, 8192),
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the render area offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write implements io.Writer so Canvas.Render can target the frame buffer.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends raw output, such as escape sequences.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

// WriteAt writes s starting at the 1-based canvas position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, row+cw.offRow, col+cw.offCol)
	cw.buf = append(cw.buf, s...)
}

// Pending returns the number of buffered bytes.
func (cw *ChunkWriter) Pending() int {
	return len(cw.buf)
}

// Flush writes the frame in chunks and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.bufw.Write(data[:n]); err != nil {
			cw.buf = cw.buf[:0]
			return err
		}
		data = data[n:]
	}
	cw.buf = cw.buf[:0]
	return cw.bufw.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith calls sizeFunc, or DefaultTermSizeFunc when it is nil.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	return sizeFunc()
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqShowCursor)
}
