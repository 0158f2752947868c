// Package draw renders the top-down road view to ANSI terminals using
// half-block characters, two pixels per cell.
package draw

// Point is a position in the canvas's logical coordinate space.
type Point struct {
	X, Y float64
}

// Half-block glyphs for a cell's top and bottom pixels.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cellGlyph returns the glyph for a cell with the given pixels lit.
func cellGlyph(top, bottom bool) rune {
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
