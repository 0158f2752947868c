package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/physics"
)

// CameraRig is the chase camera: it eases toward a point above and behind
// the player and looks a little ahead of it.
type CameraRig struct {
	Position r3.Vec `json:"position"`
	LookAt   r3.Vec `json:"lookAt"`
}

// NewCameraRig places the camera behind a car standing at the origin.
func NewCameraRig() CameraRig {
	return CameraRig{
		Position: r3.Vec{Y: config.CameraHeight, Z: -config.CameraTrail},
	}
}

// Follow moves the rig one frame toward the player.
func (c *CameraRig) Follow(player r3.Vec) {
	target := r3.Add(player, r3.Vec{Y: config.CameraHeight, Z: -config.CameraTrail})
	c.Position = physics.LerpVec(c.Position, target, config.CameraSmoothing)
	c.LookAt = r3.Add(player, r3.Vec{Z: config.CameraLookAhead})
}

// PlayerView is the player state a renderer needs.
type PlayerView struct {
	Position   r3.Vec  `json:"position"`
	Speed      float64 `json:"speed"`
	WheelAngle float64 `json:"wheelAngle"`
	Taillights bool    `json:"taillights"`
}

// CarView is one traffic car as a renderer sees it.
type CarView struct {
	ID       string `json:"id"`
	Position r3.Vec `json:"position"`
	Paint    int    `json:"paint"`
	Color    string `json:"color"`
}

// HUD is the heads-up display text.
type HUD struct {
	Score int    `json:"score"`
	Speed string `json:"speed"`
}

// Frame is the snapshot produced by one simulation step.
type Frame struct {
	Seq        uint64     `json:"seq"`
	Player     PlayerView `json:"player"`
	Camera     CameraRig  `json:"camera"`
	Traffic    []CarView  `json:"traffic"`
	Retired    []string   `json:"retired,omitempty"`
	Segments   []float64  `json:"segments"`
	HUD        HUD        `json:"hud"`
	State      State      `json:"state"`
	GameOver   bool       `json:"gameOver"`
	FinalScore int        `json:"finalScore"`
}
