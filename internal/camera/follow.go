// Package camera implements the follow controller that tracks a selected
// object through its local orbital frame. It owns explicit numeric smoothing
// state (tracked distance, camera position, look-at target) updated once per
// render frame, which keeps tracking stable against per-sample
// velocity-direction noise without hiding state in a rendering callback.
package camera

import "github.com/qu4rkn3t/NEOGuard/internal/geom"

// Fixed per-frame smoothing coefficients.
const (
	distanceDamping = 0.1
	positionLerp    = 0.2
	targetLerp      = 0.3
)

// Chase framing blend: trailing the velocity vector and above the orbital
// plane.
const (
	alongVelocity = -0.75
	alongUp       = 0.65
)

// Follow converges the camera toward a chase position behind and above the
// followed object. Inactive, it never writes to the camera; manual control
// resumes unmodified.
type Follow struct {
	MinDistance float64
	MaxDistance float64

	active          bool
	desiredDistance float64
	trackedDistance float64
	position        geom.Vec3
	target          geom.Vec3
}

// NewFollow creates an inactive follow controller with the given distance
// bounds.
func NewFollow(minDistance, maxDistance float64) *Follow {
	if maxDistance < minDistance {
		maxDistance = minDistance
	}
	return &Follow{
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	}
}

// Active reports whether the controller is writing to the camera.
func (f *Follow) Active() bool {
	return f.active
}

// Activate locks onto an object. The look-at target snaps to the object's
// current position, and the current camera-to-target distance (clamped into
// the configured bounds) becomes the tracked distance baseline, so the first
// locked frame does not jump in distance.
func (f *Follow) Activate(cameraPos, objPos geom.Vec3) {
	f.active = true
	f.target = objPos
	f.position = cameraPos
	f.trackedDistance = clamp(cameraPos.Sub(objPos).Norm(), f.MinDistance, f.MaxDistance)
	f.desiredDistance = f.trackedDistance
}

// Deactivate stops the controller. Smoothing state is discarded; the next
// Activate re-baselines from the actual camera.
func (f *Follow) Deactivate() {
	f.active = false
}

// SetDistance requests a new viewing distance (operator zoom), clamped into
// the configured bounds. The tracked distance converges toward it over the
// following frames rather than snapping.
func (f *Follow) SetDistance(d float64) {
	f.desiredDistance = clamp(d, f.MinDistance, f.MaxDistance)
}

// Distance returns the current tracked distance.
func (f *Follow) Distance() float64 {
	return f.trackedDistance
}

// Step advances the controller one render frame using the object's current
// position and velocity, and returns the smoothed camera position and
// look-at target. Calling Step on an inactive controller returns the last
// state unchanged.
func (f *Follow) Step(objPos, objVel geom.Vec3) (cameraPos, lookAt geom.Vec3) {
	if !f.active {
		return f.position, f.target
	}

	dir := f.desiredDirection(objPos, objVel)

	// Converge the tracked distance toward its clamped desired value.
	f.trackedDistance += (f.desiredDistance - f.trackedDistance) * distanceDamping

	desiredPos := objPos.Add(dir.Scale(f.trackedDistance))
	f.position = f.position.Lerp(desiredPos, positionLerp)
	f.target = f.target.Lerp(objPos, targetLerp)

	return f.position, f.target
}

// DesiredPosition returns the instantaneous (unsmoothed) chase position for
// the given object state. Exposed so callers can verify lock geometry.
func (f *Follow) DesiredPosition(objPos, objVel geom.Vec3) geom.Vec3 {
	return objPos.Add(f.desiredDirection(objPos, objVel).Scale(f.trackedDistance))
}

// desiredDirection builds the local orbital frame and blends the chase
// viewing direction from it.
func (f *Follow) desiredDirection(objPos, objVel geom.Vec3) geom.Vec3 {
	rHat, ok := objPos.Normalized()
	if !ok {
		rHat = geom.Vec3{X: 1}
	}

	vHat, ok := objVel.Normalized()
	if !ok {
		// Degenerate velocity: derive a stable in-plane direction from the
		// radial vector instead.
		vHat, ok = geom.Vec3{Z: 1}.Cross(rHat).Normalized()
		if !ok {
			vHat = geom.Vec3{Y: 1}
		}
	}

	right := vHat.Cross(rHat)
	up := right.Cross(vHat)

	dir, ok := vHat.Scale(alongVelocity).Add(up.Scale(alongUp)).Normalized()
	if !ok {
		dir = rHat
	}
	return dir
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
