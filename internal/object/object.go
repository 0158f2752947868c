// Package object holds the game entities: the player car, traffic, the road
// and the render-only crash particles.
package object

import (
	"time"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Controls are the logical driving flags for one frame.
// Several physical keys may map onto the same flag.
type Controls struct {
	Accelerate bool `json:"accelerate"`
	Brake      bool `json:"brake"`
	SteerLeft  bool `json:"steerLeft"`
	SteerRight bool `json:"steerRight"`
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta    time.Duration
	Controls Controls
	PlayerZ  float64 // longitudinal position of the player after its own update
	Spawner  Spawner
}

// Camera is the point of the world drawn at the view focus.
// X is lateral, Z is along the road.
type Camera struct {
	X, Z float64
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // Half-block canvas (2x vertical)
	Camera Camera       // World point drawn at the view focus
	View   Screen       // Viewport dimensions in logical units
}

// Screen is the logical size of the top-down view.
type Screen struct {
	Width  int
	Height int
}

// WorldToScreen projects a road-plane point onto the top-down view.
// The road runs up the screen; the camera point sits at config.ViewPlayerRow.
func WorldToScreen(x, z float64, cam Camera, view Screen) draw.Point {
	return draw.Point{
		X: float64(view.Width)/2 + (x-cam.X)*config.ViewScaleX,
		Y: config.ViewPlayerRow - (z-cam.Z)*config.ViewScaleZ,
	}
}

// Visible reports whether a projected point lies inside the view, with margin
// for objects that extend past their center.
func (s Screen) Visible(p draw.Point, margin float64) bool {
	return p.X >= -margin && p.X <= float64(s.Width)+margin &&
		p.Y >= -margin && p.Y <= float64(s.Height)+margin
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw plots the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an object with remaining blink time
// should be rendered this frame.
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}

// drawBody draws a car footprint centered on (x, z).
func drawBody(ctx DrawContext, x, z float64, filled bool) {
	tl := WorldToScreen(x-config.CarHalfWidth, z+config.CarHalfLength, ctx.Camera, ctx.View)
	br := WorldToScreen(x+config.CarHalfWidth, z-config.CarHalfLength, ctx.Camera, ctx.View)
	ctx.Canvas.DrawRect(tl.X, tl.Y, br.X, br.Y, filled)
}
