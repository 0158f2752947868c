package object

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tomz197/lanerunner/internal/config"
)

const (
	debrisGravity     = 30.0 // world units per second squared
	debrisGroundDrag  = 0.5  // horizontal speed kept on landing
	debrisSparkPeriod = 3    // every n-th piece is a spark
)

var debrisPool = sync.Pool{
	New: func() any { return &Debris{} },
}

// Debris is a piece of a wrecked car. It is presentation only and never
// touches simulation state.
type Debris struct {
	Position r3.Vec  // Y is height above the road
	Velocity r3.Vec  // world units per second
	Life     float64 // seconds remaining
	MaxLife  float64
	Spark    bool // sparks vanish when they land
}

// NewDebris takes a piece from the pool.
func NewDebris(pos, vel r3.Vec, life float64, spark bool) *Debris {
	d := debrisPool.Get().(*Debris)
	*d = Debris{Position: pos, Velocity: vel, Life: life, MaxLife: life, Spark: spark}
	return d
}

// Release returns the piece to the pool.
func (d *Debris) Release() {
	debrisPool.Put(d)
}

// SpawnCrash throws count pieces out of a wreck at pos. forward is the
// car's speed in world units per frame; the pieces carry it on.
func SpawnCrash(pos r3.Vec, forward float64, count int, burst, lifetime float64, spawner Spawner) {
	if spawner == nil {
		return
	}

	carry := forward * config.TargetFPS
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		spd := burst * (0.5 + rand.Float64())
		vel := r3.Vec{
			X: math.Cos(angle) * spd,
			Y: burst * rand.Float64(),
			Z: math.Sin(angle)*spd + carry,
		}
		life := lifetime * (0.5 + rand.Float64()*0.5)
		spawner.Spawn(NewDebris(pos, vel, life, i%debrisSparkPeriod == 0))
	}
}

// Airborne reports whether the piece is above the road.
func (d *Debris) Airborne() bool {
	return d.Position.Y > 0
}

// Update flies the piece under gravity and lets it skid once landed.
func (d *Debris) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	d.Life -= dt
	if d.Life <= 0 {
		return true, nil
	}

	if d.Airborne() {
		d.Velocity.Y -= debrisGravity * dt
	}
	d.Position = r3.Add(d.Position, r3.Scale(dt, d.Velocity))

	if d.Position.Y <= 0 && d.Velocity.Y < 0 {
		if d.Spark {
			return true, nil
		}
		d.Position.Y = 0
		d.Velocity = r3.Vec{X: d.Velocity.X * debrisGroundDrag, Z: d.Velocity.Z * debrisGroundDrag}
	}
	return false, nil
}

// Draw plots the piece. Landed pieces fade out in the last quarter of
// their life.
func (d *Debris) Draw(ctx DrawContext) error {
	if !d.Airborne() && d.MaxLife > 0 && d.Life/d.MaxLife < 0.25 {
		return nil
	}

	pos := WorldToScreen(d.Position.X, d.Position.Z, ctx.Camera, ctx.View)
	if ctx.View.Visible(pos, 0) {
		ctx.Canvas.SetFloat(pos.X, pos.Y)
	}
	return nil
}
