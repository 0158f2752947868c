package object

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/physics"
)

// Palette holds the body colors traffic cars are painted with.
var Palette = [...]uint32{0x0000ff, 0x00ff00, 0xffff00, 0xff00ff, 0x00ffff, 0x888888}

// PaintColor returns the palette entry as a CSS hex color.
func PaintColor(paint int) string {
	if paint < 0 || paint >= len(Palette) {
		paint = 0
	}
	return fmt.Sprintf("#%06x", Palette[paint])
}

// TrafficCar is an oncoming car. It moves toward the player and drifts
// sideways at a constant rate fixed at spawn.
type TrafficCar struct {
	ID       string
	Lane     int // index into config.LanePositions
	Position r3.Vec
	Speed    float64 // world units per frame toward -Z
	Drift    float64 // lateral world units per frame
	Paint    int     // index into Palette
}

// NewTrafficCar creates a car centered in the given lane at depth z.
func NewTrafficCar(lane int, z, speed, drift float64, paint int) *TrafficCar {
	return &TrafficCar{
		ID:       "car_" + uuid.NewString(),
		Lane:     lane,
		Position: r3.Vec{X: config.LanePositions[lane], Y: config.CarRideHeight, Z: z},
		Speed:    speed,
		Drift:    drift,
		Paint:    paint,
	}
}

// Update advances the car one frame. It asks to be removed once it is
// further than config.RetireMargin behind the player.
func (t *TrafficCar) Update(ctx UpdateContext) (bool, error) {
	t.Position.Z -= t.Speed
	t.Position.X += t.Drift

	return t.Position.Z < ctx.PlayerZ-config.RetireMargin, nil
}

// Bounds returns the body box at the current position.
func (t *TrafficCar) Bounds() r3.Box {
	return physics.BoxAround(t.Position, carHalfExtents)
}

// Draw renders the car outline with a stripe marking its paint.
func (t *TrafficCar) Draw(ctx DrawContext) error {
	center := WorldToScreen(t.Position.X, t.Position.Z, ctx.Camera, ctx.View)
	if !ctx.View.Visible(center, config.CarHalfLength*config.ViewScaleZ) {
		return nil
	}

	drawBody(ctx, t.Position.X, t.Position.Z, false)

	// Odd paints get a center stripe so neighbouring cars are told apart.
	if t.Paint%2 == 1 {
		front := WorldToScreen(t.Position.X, t.Position.Z+config.CarHalfLength, ctx.Camera, ctx.View)
		back := WorldToScreen(t.Position.X, t.Position.Z-config.CarHalfLength, ctx.Camera, ctx.View)
		ctx.Canvas.DrawLine(front, back)
	}
	return nil
}
