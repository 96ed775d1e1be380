// Package geom provides the 3D vector math used by the trajectory engine.
// All positions are kilometers and all velocities km/s in the inertial frame
// the propagator emits.
package geom

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + u.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns v - u.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and u.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the cross product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction. The second return
// value is false when the vector is too short or not finite to normalize
// safely; the caller must pick a fallback direction.
func (v Vec3) Normalized() (Vec3, bool) {
	n := v.Norm()
	if n < 1e-9 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec3{}, false
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}, true
}

// Lerp returns v + (u-v)*f, the linear interpolation from v toward u.
func (v Vec3) Lerp(u Vec3, f float64) Vec3 {
	return Vec3{
		X: v.X + (u.X-v.X)*f,
		Y: v.Y + (u.Y-v.Y)*f,
		Z: v.Z + (u.Z-v.Z)*f,
	}
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
