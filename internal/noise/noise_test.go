package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseDeterministicForSeed(t *testing.T) {
	a := NewSeeded(1234)
	b := NewSeeded(1234)

	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 20
		y := float64(i)*-0.11 + 3
		assert.Equal(t, a.Noise(x, y), b.Noise(x, y), "sample %d", i)
	}
}

func TestNoiseSeedsDiffer(t *testing.T) {
	a := NewSeeded(1)
	b := NewSeeded(2)

	differ := false
	for i := 0; i < 200 && !differ; i++ {
		x := float64(i)*0.37 + 0.5
		differ = a.Noise(x, 0.25) != b.Noise(x, 0.25)
	}
	assert.True(t, differ, "different seeds should produce different fields")
}

func TestNoiseZeroOnLattice(t *testing.T) {
	g := NewSeeded(99)
	for x := -5; x <= 5; x++ {
		for y := -5; y <= 5; y++ {
			assert.Zero(t, g.Noise(float64(x), float64(y)))
		}
	}
}

func TestNoiseBoundedAndContinuous(t *testing.T) {
	g := NewSeeded(7)
	const step = 1e-4

	for i := 0; i < 5000; i++ {
		x := float64(i)*0.013 - 30
		y := math.Sin(float64(i)) * 2
		n := g.Noise(x, y)

		// Four-corner lerp of gradients bounded by |x|+|y| <= 2.
		assert.LessOrEqual(t, math.Abs(n), 2.0)

		next := g.Noise(x+step, y)
		assert.InDelta(t, n, next, 0.01, "jump at x=%f y=%f", x, y)
	}
}

func TestNoiseHandlesNegativeAndLargeInputs(t *testing.T) {
	g := NewSeeded(3)
	assert.NotPanics(t, func() {
		g.Noise(-1e6, -0.5)
		g.Noise(1e6, 255.9)
		g.Noise(-256.25, 511.75)
	})
}

func TestFade(t *testing.T) {
	assert.Zero(t, fade(0))
	assert.InDelta(t, 1.0, fade(1), 1e-12)
	assert.InDelta(t, 0.5, fade(0.5), 1e-12)
}

func TestNewNilRng(t *testing.T) {
	g := New(nil)
	seen := make(map[uint8]bool)
	for _, v := range g.perm[:256] {
		seen[v] = true
	}
	assert.Len(t, seen, 256, "permutation must contain every byte once")
	assert.Equal(t, g.perm[:256], g.perm[256:])
}
