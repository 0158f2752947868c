package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/lanerunner/internal/noise"
	"github.com/tomz197/lanerunner/internal/object"
)

func newTestTraffic(stats *Stats) *Traffic {
	rng := rand.New(rand.NewSource(5))
	return NewTraffic(rng, noise.New(rng), stats)
}

func TestTrafficCompactsInOrder(t *testing.T) {
	stats := &Stats{}
	tr := newTestTraffic(stats)
	player := object.NewPlayerCar()
	session := NewSession(time.Now())

	gone1 := object.NewTrafficCar(0, -30, 0.1, 0, 0)
	keep1 := object.NewTrafficCar(0, 40, 0.1, 0, 0)
	gone2 := object.NewTrafficCar(2, -25, 0.1, 0, 0)
	keep2 := object.NewTrafficCar(2, 80, 0.1, 0, 0)
	tr.Cars = []*object.TrafficCar{gone1, keep1, gone2, keep2}

	retired, hit := tr.Update(0.01, &session, player)
	assert.Nil(t, hit)
	assert.Equal(t, []string{gone1.ID, gone2.ID}, retired)
	assert.Equal(t, []*object.TrafficCar{keep1, keep2}, tr.Cars)
	assert.Equal(t, int64(2), stats.Snapshot()["retired"])
	assert.True(t, session.Running())
}

func TestTrafficStopsAtFirstCollision(t *testing.T) {
	tr := newTestTraffic(nil)
	player := object.NewPlayerCar()
	session := NewSession(time.Now())
	session.Score = 321

	gone := object.NewTrafficCar(0, -30, 0.1, 0, 0)
	first := object.NewTrafficCar(1, 2, 0.5, 0, 0)
	second := object.NewTrafficCar(1, 3, 0.5, 0, 0)
	behindSecond := object.NewTrafficCar(0, -30, 0.1, 0, 0)
	tr.Cars = []*object.TrafficCar{gone, first, second, behindSecond}

	retired, hit := tr.Update(0.01, &session, player)
	require.Same(t, first, hit)
	assert.Equal(t, []string{gone.ID}, retired)
	assert.Equal(t, []*object.TrafficCar{first, second, behindSecond}, tr.Cars)
	assert.Equal(t, 3.0, second.Position.Z)
	assert.Equal(t, -30.0, behindSecond.Position.Z, "not retired after the crash")

	assert.Equal(t, StateEnded, session.State)
	assert.Equal(t, 321, session.FinalScore)
}

func TestTrafficSpawnUsesCachedDifficulty(t *testing.T) {
	tr := newTestTraffic(nil)
	player := object.NewPlayerCar()
	player.Position.Z = 1000
	session := NewSession(time.Now())
	session.Difficulty = Difficulty{SpawnInterval: 0.5, BaseTrafficSpeed: 0.3}

	_, _ = tr.Update(0.4, &session, player)
	require.Empty(t, tr.Cars)

	_, _ = tr.Update(0.2, &session, player)
	require.Len(t, tr.Cars, 1)
	car := tr.Cars[0]
	assert.GreaterOrEqual(t, car.Speed, 0.3)
	assert.Greater(t, car.Position.Z, 1000+59.0)

	tr.Reset()
	assert.Empty(t, tr.Cars)
}

func TestTrafficSpawnDeterministic(t *testing.T) {
	a := newTestTraffic(nil)
	b := newTestTraffic(nil)
	for i := 0; i < 20; i++ {
		ca := a.Spawn(float64(i), 0.1)
		cb := b.Spawn(float64(i), 0.1)
		assert.Equal(t, ca.Position, cb.Position)
		assert.Equal(t, ca.Drift, cb.Drift)
		assert.Equal(t, ca.Paint, cb.Paint)
		assert.NotEqual(t, ca.ID, cb.ID)
	}
}
