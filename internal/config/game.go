package config

import "time"

// Road layout, in world units. X is lateral, Z is the travel axis.
const (
	RoadWidth     = 12.0
	SegmentLength = 100.0
	NumSegments   = 3
	LaneWidth     = RoadWidth / 3
)

// LanePositions are the lateral centers of the three lanes.
var LanePositions = [3]float64{-LaneWidth, 0, LaneWidth}

// Car body, shared by the player and traffic. Half extents of the body box.
const (
	CarHalfWidth  = 1.0
	CarHalfHeight = 0.4
	CarHalfLength = 2.0
	CarRideHeight = 0.5
)

// Player physics, applied once per frame.
const (
	PlayerAcceleration = 0.005
	PlayerFriction     = 0.98
	PlayerMaxSpeed     = 0.5
	PlayerSteerSpeed   = 0.04
	BrakeFactor        = 1.5  // braking decelerates faster than accelerating
	SpeedSnap          = 1e-3 // speeds below this stop the car
	ReverseLightSpeed  = -0.01
	WheelSpinFactor    = 2.0
)

// Traffic spawning and retirement.
const (
	SpawnAheadMin    = 60.0
	SpawnAheadJitter = 60.0
	TrafficSpeedJit  = 0.1
	DriftFrequency   = 0.1 // noise samples per world unit of spawn position
	DriftScale       = 0.01
	RetireMargin     = 20.0
)

// Difficulty curve, in seconds of session time.
const (
	InitialSpawnInterval = 1.5
	MinSpawnInterval     = 0.2
	SpawnIntervalDecay   = 0.01
	InitialTrafficSpeed  = 0.1
	MaxTrafficSpeed      = 0.4
	TrafficSpeedGrowth   = 0.002
)

// Scoring
const (
	ScorePerSecond   = 100
	SpeedScoreFactor = 2.0
)

// Chase camera
const (
	CameraHeight    = 4.0
	CameraTrail     = 8.0
	CameraLookAhead = 5.0
	CameraSmoothing = 0.1
)

// Terminal view resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)

	ViewScaleX    = 4.0 // logical units per world unit across the road
	ViewScaleZ    = 1.0 // logical units per world unit along the road
	ViewPlayerRow = 68  // logical row the camera focus is drawn at
)

// Max render resolution (terminal cells). Larger terminals are centered.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Frame rate shared by the terminal loop and the websocket driver.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)
