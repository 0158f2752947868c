package object

import "github.com/tomz197/lanerunner/internal/config"

// Segment is one tile of road. Segments are created once and leapfrogged
// ahead of the player as it passes them.
type Segment struct {
	Index  int
	Offset float64 // Z of the segment start
}

// Road is a fixed ring of segments tiling the road ahead of the player.
type Road struct {
	Segments []Segment
	Length   float64 // length of one segment
}

// NewRoad creates n segments laid end to end from Z = 0.
// n below 1 is treated as 1.
func NewRoad(n int) *Road {
	if n < 1 {
		n = 1
	}
	r := &Road{
		Segments: make([]Segment, n),
		Length:   config.SegmentLength,
	}
	r.Reset()
	return r
}

// Reset restores the initial tiling.
func (r *Road) Reset() {
	for i := range r.Segments {
		r.Segments[i] = Segment{Index: i, Offset: float64(i) * r.Length}
	}
}

// Offsets returns the segment offsets in slot order.
func (r *Road) Offsets() []float64 {
	out := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.Offset
	}
	return out
}

// Update moves every segment that lies fully behind the player to the far
// end of the ring. The road is never removed.
func (r *Road) Update(ctx UpdateContext) (bool, error) {
	span := float64(len(r.Segments)) * r.Length
	for i := range r.Segments {
		if r.Segments[i].Offset+r.Length < ctx.PlayerZ {
			r.Segments[i].Offset += span
		}
	}
	return false, nil
}

const (
	dashLength = 3.0
	dashGap    = 3.0
)

// Draw renders the road edges and dashed lane dividers of visible segments.
func (r *Road) Draw(ctx DrawContext) error {
	halfRoad := config.RoadWidth / 2
	dividers := [2]float64{-config.LaneWidth / 2, config.LaneWidth / 2}

	for _, s := range r.Segments {
		start := s.Offset
		end := s.Offset + r.Length

		near := WorldToScreen(0, start, ctx.Camera, ctx.View)
		far := WorldToScreen(0, end, ctx.Camera, ctx.View)
		if near.Y < 0 || far.Y > float64(ctx.View.Height) {
			continue
		}

		for _, x := range [2]float64{-halfRoad, halfRoad} {
			ctx.Canvas.DrawLine(
				WorldToScreen(x, start, ctx.Camera, ctx.View),
				WorldToScreen(x, end, ctx.Camera, ctx.View),
			)
		}

		for z := start; z < end; z += dashLength + dashGap {
			for _, x := range dividers {
				a := WorldToScreen(x, z, ctx.Camera, ctx.View)
				b := WorldToScreen(x, z+dashLength, ctx.Camera, ctx.View)
				if b.Y > float64(ctx.View.Height) || a.Y < 0 {
					continue
				}
				ctx.Canvas.DrawLine(a, b)
			}
		}
	}
	return nil
}
