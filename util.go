package main

import (
	"math"
	"math/rand/v2"
)

// Vec2 is a 2D position or direction. Always passed by value.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the length of v
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v with unit length, or the zero vector
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns the unit vector for an angle in radians
func FromAngle(rad float64) Vec2 {
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// Rect is an axis-aligned bounding box centered on a position
type Rect struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

// BoundAt returns a square bound of the given edge size centered at pos
func BoundAt(pos Vec2, size float64) Rect {
	return Rect{Center: pos, HalfW: size / 2, HalfH: size / 2}
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return math.Abs(r.Center.X-o.Center.X) < r.HalfW+o.HalfW &&
		math.Abs(r.Center.Y-o.Center.Y) < r.HalfH+o.HalfH
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// NormalizeAngle wraps angle to [-PI, PI]. Client angles can be arbitrarily
// large, so this must not loop.
func NormalizeAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// NormalizeDegrees wraps deg to [-180, 180]
func NormalizeDegrees(deg float64) float64 {
	return math.Remainder(deg, 360)
}

// finite reports whether every value is neither NaN nor infinite
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// randRange returns a float in [min, max)
func randRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
