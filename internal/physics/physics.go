// Package physics provides bounding volumes, overlap tests and interpolation helpers.
package physics

import "gonum.org/v1/gonum/spatial/r3"

// BoxAround returns the axis-aligned box centered on c with the given half extents.
func BoxAround(c, half r3.Vec) r3.Box {
	return r3.Box{
		Min: r3.Sub(c, half),
		Max: r3.Add(c, half),
	}
}

// BoxesOverlap reports whether two boxes intersect on all three axes.
// Touching faces count as an overlap.
func BoxesOverlap(a, b r3.Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp moves a toward b by the fraction t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec moves a toward b by the fraction t on every axis.
func LerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
