package trajectory

import (
	"testing"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/tle"
)

func sampledTrajectory(n int, radiusKm float64) *Trajectory {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{T: float64(i) * 60, R: geom.Vec3{X: radiusKm}}
	}
	return &Trajectory{Name: "TEST", NoradID: 1, Samples: samples}
}

// TestAtClamps verifies out-of-range indices clamp to the ends and an empty
// trajectory reports absence.
func TestAtClamps(t *testing.T) {
	tr := sampledTrajectory(5, 6778)

	if s, ok := tr.At(-3); !ok || s.T != 0 {
		t.Errorf("At(-3) = %v, %v; want first sample", s, ok)
	}
	if s, ok := tr.At(99); !ok || s.T != 240 {
		t.Errorf("At(99) = %v, %v; want last sample", s, ok)
	}
	if s, ok := tr.At(2); !ok || s.T != 120 {
		t.Errorf("At(2) = %v, %v; want sample 2", s, ok)
	}

	empty := &Trajectory{Name: "EMPTY"}
	if _, ok := empty.At(0); ok {
		t.Error("At on empty trajectory returned a sample")
	}
	if !empty.Empty() || empty.MaxIndex() != -1 {
		t.Error("empty trajectory misreports Empty/MaxIndex")
	}
}

// TestStartAltitude verifies the altitude is measured above the mean
// equatorial radius.
func TestStartAltitude(t *testing.T) {
	tr := sampledTrajectory(5, tle.EarthRadiusKm+420)
	alt, ok := tr.StartAltitudeKm()
	if !ok {
		t.Fatal("no altitude for non-empty trajectory")
	}
	if alt < 419.9 || alt > 420.1 {
		t.Errorf("altitude = %v, want ~420", alt)
	}

	empty := &Trajectory{}
	if _, ok := empty.StartAltitudeKm(); ok {
		t.Error("empty trajectory reported an altitude")
	}
}

// TestSetMaxIndex verifies the cursor range comes from the reference
// trajectory, index 0.
func TestSetMaxIndex(t *testing.T) {
	var nilSet *Set
	if got := nilSet.MaxIndex(); got != -1 {
		t.Errorf("nil set MaxIndex = %d, want -1", got)
	}
	if got := (&Set{}).MaxIndex(); got != -1 {
		t.Errorf("empty set MaxIndex = %d, want -1", got)
	}

	set := &Set{Trajectories: []*Trajectory{
		sampledTrajectory(91, 6778),
		sampledTrajectory(31, 6778),
	}}
	if got := set.MaxIndex(); got != 90 {
		t.Errorf("MaxIndex = %d, want reference 90", got)
	}
}

// TestStorePublish verifies atomic wholesale replacement and age reporting.
func TestStorePublish(t *testing.T) {
	store := NewStore()
	if store.Get() != nil {
		t.Error("new store is not empty")
	}
	if store.AgeSeconds() != -1 {
		t.Errorf("age of empty store = %v, want -1", store.AgeSeconds())
	}

	set := &Set{
		Trajectories:      []*Trajectory{sampledTrajectory(5, 6778)},
		SampleIntervalSec: 60,
		LoadedAt:          time.Now().Add(-10 * time.Second),
	}
	store.Set(set)

	if got := store.Get(); got != set {
		t.Error("Get did not return the published set")
	}
	if age := store.AgeSeconds(); age < 9 || age > 60 {
		t.Errorf("age = %v, want ~10", age)
	}
}
