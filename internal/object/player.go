package object

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/physics"
)

// carHalfExtents is the half size of every car body box.
var carHalfExtents = r3.Vec{X: config.CarHalfWidth, Y: config.CarHalfHeight, Z: config.CarHalfLength}

// PlayerCar is the car driven by the player.
// Speeds and steering are in world units per frame.
type PlayerCar struct {
	Position   r3.Vec // X lateral, Y ride height, Z along the road
	Speed      float64
	WheelAngle float64 // Accumulated wheel rotation in radians
	Braking    bool    // Brake held during the last update

	Acceleration float64
	Friction     float64 // Speed multiplier applied every frame
	MaxSpeed     float64 // Forward cap; reverse is capped at half of it
	SteerSpeed   float64
}

// NewPlayerCar creates a stationary car at the origin of the road.
func NewPlayerCar() *PlayerCar {
	return &PlayerCar{
		Position:     r3.Vec{Y: config.CarRideHeight},
		Acceleration: config.PlayerAcceleration,
		Friction:     config.PlayerFriction,
		MaxSpeed:     config.PlayerMaxSpeed,
		SteerSpeed:   config.PlayerSteerSpeed,
	}
}

// Reset puts the car back at the origin with zero speed.
func (p *PlayerCar) Reset() {
	p.Position = r3.Vec{Y: config.CarRideHeight}
	p.Speed = 0
	p.WheelAngle = 0
	p.Braking = false
}

// MaxLateral is the furthest the car center may be from the road center.
func MaxLateral() float64 {
	return config.RoadWidth/2 - config.CarHalfWidth
}

// Update applies one frame of driving physics.
func (p *PlayerCar) Update(ctx UpdateContext) (bool, error) {
	c := ctx.Controls

	if c.Accelerate {
		p.Speed += p.Acceleration
	}
	p.Braking = c.Brake
	if c.Brake {
		p.Speed -= p.Acceleration * config.BrakeFactor
	}

	p.Speed = physics.Clamp(p.Speed, -p.MaxSpeed/2, p.MaxSpeed)

	p.Speed *= p.Friction
	if p.Speed > -config.SpeedSnap && p.Speed < config.SpeedSnap {
		p.Speed = 0
	}

	// Left is -X. Both held cancel out.
	if c.SteerLeft {
		p.Position.X -= p.SteerSpeed
	}
	if c.SteerRight {
		p.Position.X += p.SteerSpeed
	}
	p.Position.X = physics.Clamp(p.Position.X, -MaxLateral(), MaxLateral())

	p.Position.Z += p.Speed
	p.WheelAngle -= p.Speed * config.WheelSpinFactor

	return false, nil
}

// Bounds returns the body box at the current position.
func (p *PlayerCar) Bounds() r3.Box {
	return physics.BoxAround(p.Position, carHalfExtents)
}

// Taillights reports whether the rear lights are lit: while braking or reversing.
func (p *PlayerCar) Taillights() bool {
	return p.Braking || p.Speed < config.ReverseLightSpeed
}

// Draw renders the car as a filled block with taillight marks behind it.
func (p *PlayerCar) Draw(ctx DrawContext) error {
	drawBody(ctx, p.Position.X, p.Position.Z, true)

	if p.Taillights() {
		rearZ := p.Position.Z - config.CarHalfLength - 0.5
		for _, dx := range [2]float64{-config.CarHalfWidth, config.CarHalfWidth} {
			pt := WorldToScreen(p.Position.X+dx, rearZ, ctx.Camera, ctx.View)
			ctx.Canvas.SetFloat(pt.X, pt.Y)
			ctx.Canvas.SetFloat(pt.X, pt.Y+1)
		}
	}
	return nil
}
