// Package core provides the fundamental value types shared by the combat and
// heat engines. It has no external dependencies and no package-level state,
// so everything built on it stays pure and replayable.
package core

import "math"

// Epsilon is the threshold below which damage, charge and structure are
// treated as zero.
const Epsilon = 1e-5

// degenerateLenSq is the squared length under which a vector has no usable
// direction.
const degenerateLenSq = 1e-12

// Vec3 is a float64 3D vector used for orientation and hit directions.
type Vec3 struct {
	X, Y, Z float64
}

// Common axes.
var (
	AxisX = Vec3{X: 1}
	AxisY = Vec3{Y: 1}
	AxisZ = Vec3{Z: 1}
)

// V3 creates a vector from its components.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length.
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// Len returns the length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// NormalizeSafe returns the unit vector along v, or fallback when v is too
// short to have a direction. Zero vectors never produce NaN.
func (v Vec3) NormalizeSafe(fallback Vec3) Vec3 {
	lenSq := v.LenSq()
	if lenSq < degenerateLenSq || math.IsNaN(lenSq) || math.IsInf(lenSq, 0) {
		return fallback
	}
	return v.Scale(1 / math.Sqrt(lenSq))
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Saturate clamps x to [0, 1].
func Saturate(x float64) float64 {
	return ClampF(x, 0, 1)
}

// MaxF returns the larger of two floats.
func MaxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// MinF returns the smaller of two floats.
func MinF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// NeutralIfNonPositive returns 1 for v <= 0, otherwise v. Tuning fields left
// at zero mean "no change".
func NeutralIfNonPositive(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
