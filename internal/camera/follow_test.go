package camera

import (
	"math"
	"testing"

	"github.com/qu4rkn3t/NEOGuard/internal/geom"
)

// TestActivateClampsDistance verifies the tracked-distance baseline snaps
// into the configured bounds on lock.
func TestActivateClampsDistance(t *testing.T) {
	objPos := geom.Vec3{X: 7000}

	f := NewFollow(100, 5000)
	f.Activate(geom.Vec3{X: 7000 + 20000}, objPos) // 20000 km away
	if got := f.Distance(); got != 5000 {
		t.Errorf("tracked distance = %v, want clamped 5000", got)
	}

	f.Activate(geom.Vec3{X: 7000 + 10}, objPos) // 10 km away
	if got := f.Distance(); got != 100 {
		t.Errorf("tracked distance = %v, want clamped 100", got)
	}
}

// TestStepConvergesToDesiredPosition verifies repeated frames against a
// stationary object converge position and look-at to the chase geometry.
func TestStepConvergesToDesiredPosition(t *testing.T) {
	objPos := geom.Vec3{X: 7000}
	objVel := geom.Vec3{Y: 7.5}
	camStart := geom.Vec3{X: 9000, Y: 500, Z: 500}

	f := NewFollow(100, 5000)
	f.Activate(camStart, objPos)

	var pos, look geom.Vec3
	for i := 0; i < 400; i++ {
		pos, look = f.Step(objPos, objVel)
	}

	want := f.DesiredPosition(objPos, objVel)
	if pos.Sub(want).Norm() > 1e-6 {
		t.Errorf("camera = %+v, want converged to %+v", pos, want)
	}
	if look.Sub(objPos).Norm() > 1e-6 {
		t.Errorf("look-at = %+v, want converged to object %+v", look, objPos)
	}

	// Chase geometry: behind the motion and above the orbital plane.
	rel := want.Sub(objPos)
	if rel.Dot(objVel) >= 0 {
		t.Error("chase position is not behind the velocity vector")
	}
	if math.Abs(rel.Norm()-f.Distance()) > 1e-6 {
		t.Errorf("chase offset length = %v, want tracked distance %v", rel.Norm(), f.Distance())
	}
}

// TestToggleNoDrift verifies deactivating and reactivating follow on a
// stationary scene does not move the camera: repeated toggles are idempotent.
func TestToggleNoDrift(t *testing.T) {
	objPos := geom.Vec3{X: 7000}
	objVel := geom.Vec3{Y: 7.5}

	f := NewFollow(100, 5000)
	f.Activate(geom.Vec3{X: 8000}, objPos)

	var pos geom.Vec3
	for i := 0; i < 400; i++ {
		pos, _ = f.Step(objPos, objVel)
	}

	f.Deactivate()
	f.Activate(pos, objPos)
	next, _ := f.Step(objPos, objVel)

	if next.Sub(pos).Norm() > 1e-6 {
		t.Errorf("camera moved %v km on reactivation, want 0", next.Sub(pos).Norm())
	}
}

// TestSetDistanceConverges verifies zoom requests are clamped and the
// tracked distance approaches them smoothly rather than snapping.
func TestSetDistanceConverges(t *testing.T) {
	objPos := geom.Vec3{X: 7000}
	objVel := geom.Vec3{Y: 7.5}

	f := NewFollow(100, 5000)
	f.Activate(geom.Vec3{X: 8000}, objPos)
	start := f.Distance()

	f.SetDistance(50000) // clamped to 5000
	f.Step(objPos, objVel)
	after := f.Distance()
	if after <= start {
		t.Errorf("tracked distance did not move toward request: %v -> %v", start, after)
	}
	if after >= 5000 {
		t.Errorf("tracked distance snapped to %v, want gradual approach", after)
	}

	for i := 0; i < 400; i++ {
		f.Step(objPos, objVel)
	}
	if math.Abs(f.Distance()-5000) > 1e-3 {
		t.Errorf("tracked distance = %v, want converged to 5000", f.Distance())
	}
}

// TestInactiveStepIsIdentity verifies an inactive controller never writes.
func TestInactiveStepIsIdentity(t *testing.T) {
	f := NewFollow(100, 5000)
	pos, look := f.Step(geom.Vec3{X: 7000}, geom.Vec3{Y: 7.5})
	if pos != (geom.Vec3{}) || look != (geom.Vec3{}) {
		t.Errorf("inactive Step returned %+v %+v, want zero state", pos, look)
	}
}

// TestDegenerateVelocity verifies the viewing direction stays finite and
// unit-length when the velocity is zero or parallel to the radial vector.
func TestDegenerateVelocity(t *testing.T) {
	f := NewFollow(100, 5000)
	f.Activate(geom.Vec3{X: 8000}, geom.Vec3{X: 7000})

	cases := []struct {
		name string
		pos  geom.Vec3
		vel  geom.Vec3
	}{
		{"zero velocity", geom.Vec3{X: 7000}, geom.Vec3{}},
		{"radial velocity", geom.Vec3{X: 7000}, geom.Vec3{X: 3}},
		{"polar radial", geom.Vec3{Z: 7000}, geom.Vec3{}},
		{"object at origin", geom.Vec3{}, geom.Vec3{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := f.DesiredPosition(tc.pos, tc.vel)
			if !want.IsFinite() {
				t.Fatalf("desired position %+v is not finite", want)
			}
			offset := want.Sub(tc.pos).Norm()
			if math.Abs(offset-f.Distance()) > 1e-6 {
				t.Errorf("offset = %v, want %v", offset, f.Distance())
			}
		})
	}
}
