// Package render derives the finite path-segment windows displayed for each
// trajectory at the current cursor position. Generators are pure readers:
// they take the cursor's integer sample index and a trajectory and emit
// geometry with per-segment opacity, with no back-influence on time.
package render

import (
	"math"

	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Segment is one displayable path segment.
type Segment struct {
	From    geom.Vec3
	To      geom.Vec3
	Opacity float64
	// RadiusScale shrinks the segment toward the Earth's center; 1 means no
	// shrink. Only the decay ghost sets it below 1.
	RadiusScale float64
}

const (
	// fullOrbitOpacity is the constant opacity of the static context ring.
	fullOrbitOpacity = 0.22

	// trailFloorOpacity keeps the oldest trail segments faintly visible.
	trailFloorOpacity = 0.06

	// decayAltitudeCeilingKm bounds the altitude band where the decay ghost
	// activates.
	decayAltitudeCeilingKm = 1200.0

	// decayShrinkFloor caps the inward pull of the ghost at 3%. A visual
	// tunable, not a physical law.
	decayShrinkFloor = 0.97

	decayGhostOpacity = 0.12
)

// Index converts the continuous cursor value to the integer sample index
// used by all generators: round, then clamp into [0, maxIndex].
func Index(t float64, maxIndex int) int {
	if maxIndex < 0 {
		return 0
	}
	idx := int(math.Round(t))
	if idx < 0 {
		idx = 0
	}
	if idx > maxIndex {
		idx = maxIndex
	}
	return idx
}

// windowSegments returns the number of trail segments ending at idx for the
// given window length in minutes.
func windowSegments(idx int, trailMinutes, intervalSec float64) int {
	if idx <= 0 || intervalSec <= 0 {
		return 0
	}
	n := int(math.Round(trailMinutes * 60 / intervalSec))
	if idx < n {
		return idx
	}
	return n
}

// FullOrbit returns the entire sample sequence as one continuous path at
// low, constant opacity — a static context ring independent of the cursor.
func FullOrbit(tr *trajectory.Trajectory) []Segment {
	if tr.Empty() || len(tr.Samples) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(tr.Samples)-1)
	for i := 1; i < len(tr.Samples); i++ {
		segs = append(segs, Segment{
			From:        tr.Samples[i-1].R,
			To:          tr.Samples[i].R,
			Opacity:     fullOrbitOpacity,
			RadiusScale: 1,
		})
	}
	return segs
}

// Trail returns the segments spanning the last trailMinutes of samples
// ending at idx. Opacity follows max(0.06, f^1.5) where f runs from 0 at the
// oldest end of the window to 1 at idx, so the newest segment stays near
// full intensity while the tail fades quickly. No trail exists at idx 0.
func Trail(tr *trajectory.Trajectory, idx int, trailMinutes, intervalSec float64) []Segment {
	if tr.Empty() {
		return nil
	}
	if idx > tr.MaxIndex() {
		idx = tr.MaxIndex()
	}
	n := windowSegments(idx, trailMinutes, intervalSec)
	if n == 0 {
		return nil
	}

	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		from := tr.Samples[idx-n+i].R
		to := tr.Samples[idx-n+i+1].R
		f := float64(i+1) / float64(n)
		segs = append(segs, Segment{
			From:        from,
			To:          to,
			Opacity:     math.Max(trailFloorOpacity, math.Pow(f, 1.5)),
			RadiusScale: 1,
		})
	}
	return segs
}

// DecayGhost returns the dim trailing overlay suggesting orbital decay. It
// only activates for trajectories starting below the decay altitude band and
// when exaggeration is positive. Each segment is pulled inward by a
// time-increasing factor capped at decayShrinkFloor, with a linear opacity
// ramp 0.12·f. This is a stylized visualization, not a propagation.
func DecayGhost(tr *trajectory.Trajectory, idx int, trailMinutes, intervalSec, exaggeration float64) []Segment {
	if exaggeration <= 0 {
		return nil
	}
	alt, ok := tr.StartAltitudeKm()
	if !ok || alt >= decayAltitudeCeilingKm {
		return nil
	}
	if idx > tr.MaxIndex() {
		idx = tr.MaxIndex()
	}
	n := windowSegments(idx, trailMinutes, intervalSec)
	if n == 0 {
		return nil
	}

	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		a := tr.Samples[idx-n+i]
		b := tr.Samples[idx-n+i+1]
		midT := (a.T + b.T) / 2
		shrink := math.Max(decayShrinkFloor, 1-math.Min(0.03, exaggeration*1e-6*midT))
		f := float64(i+1) / float64(n)
		segs = append(segs, Segment{
			From:        a.R,
			To:          b.R,
			Opacity:     decayGhostOpacity * f,
			RadiusScale: shrink,
		})
	}
	return segs
}

// DecayEligible reports whether the trajectory is in the altitude band where
// the decay ghost is shown.
func DecayEligible(tr *trajectory.Trajectory) bool {
	alt, ok := tr.StartAltitudeKm()
	return ok && alt < decayAltitudeCeilingKm
}
