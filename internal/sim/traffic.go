package sim

import (
	"math/rand"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/noise"
	"github.com/tomz197/lanerunner/internal/object"
	"github.com/tomz197/lanerunner/internal/physics"
)

// Traffic owns the oncoming cars: it spawns them ahead of the player,
// advances them, retires the ones left behind and detects crashes.
type Traffic struct {
	Cars []*object.TrafficCar

	rng   *rand.Rand
	noise *noise.Generator
	stats *Stats
}

// NewTraffic creates an empty traffic manager. rng drives placement and
// paint, gen drives lateral drift.
func NewTraffic(rng *rand.Rand, gen *noise.Generator, stats *Stats) *Traffic {
	return &Traffic{rng: rng, noise: gen, stats: stats}
}

// Spawn places one car ahead of the player in a random lane.
func (t *Traffic) Spawn(playerZ, baseSpeed float64) *object.TrafficCar {
	lane := t.rng.Intn(len(config.LanePositions))
	z := playerZ + config.SpawnAheadMin + t.rng.Float64()*config.SpawnAheadJitter
	speed := baseSpeed + t.rng.Float64()*config.TrafficSpeedJit
	drift := t.noise.Noise(z*config.DriftFrequency, t.rng.Float64()*2-1) * config.DriftScale
	paint := t.rng.Intn(len(object.Palette))

	car := object.NewTrafficCar(lane, z, speed, drift, paint)
	t.Cars = append(t.Cars, car)
	t.stats.AddSpawned()
	return car
}

// Update runs one frame of traffic for a running session.
//
// The spawn timer accumulates dt and spawns at most one car once it exceeds
// the cached spawn interval. Cars then advance in list order. A car that
// falls behind the retire margin is dropped and its id returned in retired.
// The first car overlapping the player ends the session; cars after it are
// kept untouched for this frame.
func (t *Traffic) Update(dt float64, session *Session, player *object.PlayerCar) (retired []string, hit *object.TrafficCar) {
	session.SpawnTimer += dt
	if session.SpawnTimer > session.Difficulty.SpawnInterval {
		t.Spawn(player.Position.Z, session.Difficulty.BaseTrafficSpeed)
		session.SpawnTimer = 0
	}

	ctx := object.UpdateContext{PlayerZ: player.Position.Z}
	playerBox := player.Bounds()

	n := len(t.Cars)
	kept := t.Cars[:0] // reuse backing array
	for i, car := range t.Cars {
		remove, _ := car.Update(ctx) // traffic updates never fail
		if remove {
			retired = append(retired, car.ID)
			continue
		}
		kept = append(kept, car)

		if physics.BoxesOverlap(playerBox, car.Bounds()) {
			hit = car
			kept = append(kept, t.Cars[i+1:]...)
			break
		}
	}
	clear(t.Cars[len(kept):n])
	t.Cars = kept

	t.stats.AddRetired(len(retired))
	if hit != nil {
		t.stats.AddCollision()
		session.End()
	}
	return retired, hit
}

// Reset removes every car.
func (t *Traffic) Reset() {
	clear(t.Cars)
	t.Cars = t.Cars[:0]
}
