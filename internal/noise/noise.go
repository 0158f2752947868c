// Package noise implements 2D gradient noise used to give traffic a smooth
// lateral drift.
package noise

import (
	"math"
	"math/rand"
	"time"
)

// Generator is a 2D gradient noise source with a shuffled permutation table.
// It is safe for concurrent reads once constructed.
type Generator struct {
	perm [512]uint8 // 256 entries, duplicated so corner lookups never wrap
}

// New creates a generator whose permutation is shuffled with rng.
// A nil rng seeds from the wall clock, so two generators differ.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Generator{}
	for i := 0; i < 256; i++ {
		g.perm[i] = uint8(i)
	}
	// Fisher-Yates
	for i := 255; i > 0; i-- {
		r := rng.Intn(i + 1)
		g.perm[i], g.perm[r] = g.perm[r], g.perm[i]
	}
	copy(g.perm[256:], g.perm[:256])
	return g
}

// NewSeeded creates a generator with a reproducible permutation.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Noise samples the field at (x, y). The result is roughly in [-1, 1],
// continuous in both arguments and zero on every lattice point.
func (g *Generator) Noise(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	xi := int(fx) & 255
	yi := int(fy) & 255
	x -= fx
	y -= fy

	u := fade(x)
	v := fade(y)

	a := int(g.perm[xi]) + yi
	b := int(g.perm[xi+1]) + yi
	h1 := g.perm[a]
	h2 := g.perm[b]
	h3 := g.perm[a+1]
	h4 := g.perm[b+1]

	return lerp(
		lerp(grad(h1, x, y), grad(h2, x-1, y), u),
		lerp(grad(h3, x, y-1), grad(h4, x-1, y-1), u),
		v,
	)
}

// fade is the quintic curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// grad picks one of four diagonal gradients from the low hash bits.
func grad(h uint8, x, y float64) float64 {
	if h&1 == 0 {
		x = -x
	}
	if h&2 == 0 {
		y = -y
	}
	return x + y
}
