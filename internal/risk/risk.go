// Package risk scores close approaches between a reference debris trajectory
// and one or more target trajectories. The score is a smooth value in [0,1]
// combining proximity and relative speed; it never hard-caps to zero at
// large distances.
package risk

import (
	"math"
	"sort"

	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Speed scale for the score: roughly the relative speed of two crossing LEO
// orbits.
const speedScaleKms = 7.5

// CloseApproach is one scored reference/target encounter.
type CloseApproach struct {
	Target        string  `json:"target"`
	MinDistanceKm float64 `json:"min_distance_km"`
	TimestampSec  float64 `json:"timestamp_sec"`
	RelSpeedKms   float64 `json:"rel_speed_kms"`
	RiskScore     float64 `json:"risk_score"`
}

// Target pairs a name with its sample sequence.
type Target struct {
	Name    string
	Samples []trajectory.Sample
}

// minDistance walks two aligned sample sequences and returns the minimum
// separation, the relative speed at that instant, and its timestamp.
func minDistance(a, b []trajectory.Sample) (dKm, vKms, tSec float64, ok bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0, 0, 0, false
	}

	best := math.Inf(1)
	for i := 0; i < n; i++ {
		d := a[i].R.Sub(b[i].R).Norm()
		if d < best {
			best = d
			vKms = a[i].V.Sub(b[i].V).Norm()
			tSec = a[i].T
		}
	}
	return best, vKms, tSec, true
}

// Score computes the smooth risk score for a minimum distance and relative
// speed, with thresholdKm acting as the distance scale d0:
//
//	proximity = 1 / (1 + (d/d0)²)
//	speed     = tanh(v / 7.5)
//	risk      = proximity · speed
//
// At d == d0 the proximity factor is exactly 0.5.
func Score(dKm, vKms, thresholdKm float64) float64 {
	d0 := math.Max(1e-6, thresholdKm)
	d := math.Max(0, dKm)
	v := math.Max(0, vKms)

	s := (1 / (1 + (d/d0)*(d/d0))) * math.Tanh(v/speedScaleKms)
	return math.Min(1, math.Max(0, s))
}

// Assess scores every target against the reference and returns the results
// sorted highest score first, smaller distance breaking ties. Targets with
// no overlapping samples are omitted.
func Assess(reference []trajectory.Sample, targets []Target, thresholdKm float64) []CloseApproach {
	out := make([]CloseApproach, 0, len(targets))
	for _, tgt := range targets {
		d, v, t, ok := minDistance(reference, tgt.Samples)
		if !ok {
			continue
		}
		out = append(out, CloseApproach{
			Target:        tgt.Name,
			MinDistanceKm: d,
			TimestampSec:  t,
			RelSpeedKms:   v,
			RiskScore:     Score(d, v, thresholdKm),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].MinDistanceKm < out[j].MinDistanceKm
	})
	return out
}
