// Package trajectory holds the enriched, immutable per-object sample
// sequences for one simulation run, plus the store that publishes them
// wholesale to the playback engine.
package trajectory

import (
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/classify"
	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/tle"
)

// DefaultSampleIntervalSec is the assumed spacing between adjacent samples.
// Render-window math depends on this spacing being uniform.
const DefaultSampleIntervalSec = 60.0

// Sample is one time-stamped position/velocity record. T is seconds since
// the trajectory epoch; R is km in the inertial frame; V is km/s.
type Sample struct {
	T float64
	R geom.Vec3
	V geom.Vec3
}

// Trajectory is the enriched sample sequence for a single object. It is
// immutable once constructed: a new fetch replaces it wholesale, it is never
// mutated in place.
type Trajectory struct {
	Name     string
	NoradID  int
	Category string
	Color    string
	Shape    string
	Type     classify.ObjectType

	// Epoch is the absolute instant corresponding to Samples[0].T == 0.
	Epoch time.Time

	// Elements is nil when the TLE could not be parsed; the absence is a
	// normal, displayable state.
	Elements *tle.Elements

	Samples []Sample
}

// Empty reports whether the trajectory has no samples. Empty trajectories
// disable playback and rendering for this object without blocking others.
func (tr *Trajectory) Empty() bool {
	return len(tr.Samples) == 0
}

// MaxIndex returns the last valid sample index, or -1 when empty.
func (tr *Trajectory) MaxIndex() int {
	return len(tr.Samples) - 1
}

// At returns the sample at idx, clamped into the valid range.
// The second return value is false for an empty trajectory.
func (tr *Trajectory) At(idx int) (Sample, bool) {
	if len(tr.Samples) == 0 {
		return Sample{}, false
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tr.Samples) {
		idx = len(tr.Samples) - 1
	}
	return tr.Samples[idx], true
}

// StartAltitudeKm returns the altitude of the first sample above the mean
// equatorial radius, or false for an empty trajectory.
func (tr *Trajectory) StartAltitudeKm() (float64, bool) {
	if len(tr.Samples) == 0 {
		return 0, false
	}
	return tr.Samples[0].R.Norm() - tle.EarthRadiusKm, true
}

// Set is one complete enriched trajectory set. The first trajectory is the
// reference: the playback cursor ranges over its sample indices and all
// trajectories are assumed sample-count-aligned to it.
type Set struct {
	Trajectories      []*Trajectory
	SampleIntervalSec float64
	LoadedAt          time.Time
}

// MaxIndex returns the reference trajectory's last sample index, or -1 when
// the set is empty or the reference has no samples.
func (s *Set) MaxIndex() int {
	if s == nil || len(s.Trajectories) == 0 {
		return -1
	}
	return s.Trajectories[0].MaxIndex()
}
