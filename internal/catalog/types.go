// Package catalog defines the wire contract of the NEOGuard service and the
// HTTP client + loader the playback engine uses to consume it.
package catalog

import (
	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/risk"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Minutes bounds for propagate/predict requests.
const (
	MinMinutes     = 1
	MaxMinutes     = 24 * 60
	DefaultMinutes = 360
)

// TLERecord is one named two-line element set.
type TLERecord struct {
	Name    string `json:"name"`
	NoradID int    `json:"norad_id"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
}

// TLEResponse is the result of a TLE or debris-catalog lookup.
type TLEResponse struct {
	Count   int         `json:"count"`
	Records []TLERecord `json:"records"`
}

// State is one wire-format trajectory sample: seconds since the TLE epoch,
// position km, velocity km/s.
type State struct {
	T float64    `json:"t"`
	R [3]float64 `json:"r"`
	V [3]float64 `json:"v"`
}

// PropagateRequest asks for SGP4 samples over a horizon in minutes.
type PropagateRequest struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	Minutes int    `json:"minutes"`
}

// PropagateResponse carries the ordered, uniformly spaced samples.
type PropagateResponse struct {
	States []State `json:"states"`
}

// BatchPropagateRequest propagates many records in one call.
type BatchPropagateRequest struct {
	Records []TLERecord `json:"records"`
	Minutes int         `json:"minutes"`
}

// BatchTrajectory is one record's samples within a batch response. Records
// that failed to propagate carry an Error and no states.
type BatchTrajectory struct {
	Name    string  `json:"name"`
	NoradID int     `json:"norad_id"`
	States  []State `json:"states,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// BatchPropagateResponse carries per-record results in no particular order.
type BatchPropagateResponse struct {
	Trajectories []BatchTrajectory `json:"trajectories"`
}

// PredictRequest asks the prediction service for samples. The service falls
// back to plain SGP4 when no learned corrector is available.
type PredictRequest struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	Minutes int    `json:"minutes"`
}

// PredictResponse carries predicted samples and the model that produced them.
type PredictResponse struct {
	States []State `json:"states"`
	Source string  `json:"source"`
}

// RiskTarget pairs a name with its sample sequence.
type RiskTarget struct {
	Name   string  `json:"name"`
	States []State `json:"states"`
}

// RiskRequest scores targets against one reference debris trajectory.
type RiskRequest struct {
	Debris      RiskTarget   `json:"debris"`
	Targets     []RiskTarget `json:"targets"`
	ThresholdKm float64      `json:"threshold_km"`
}

// RiskResponse lists close approaches, highest risk first.
type RiskResponse struct {
	Approaches []risk.CloseApproach `json:"approaches"`
}

// ToSamples converts wire states to engine samples.
func ToSamples(states []State) []trajectory.Sample {
	samples := make([]trajectory.Sample, 0, len(states))
	for _, s := range states {
		samples = append(samples, trajectory.Sample{
			T: s.T,
			R: geom.Vec3{X: s.R[0], Y: s.R[1], Z: s.R[2]},
			V: geom.Vec3{X: s.V[0], Y: s.V[1], Z: s.V[2]},
		})
	}
	return samples
}

// FromSamples converts engine samples to wire states.
func FromSamples(samples []trajectory.Sample) []State {
	states := make([]State, 0, len(samples))
	for _, s := range samples {
		states = append(states, State{
			T: s.T,
			R: [3]float64{s.R.X, s.R.Y, s.R.Z},
			V: [3]float64{s.V.X, s.V.Y, s.V.Z},
		})
	}
	return states
}

// ClampMinutes applies the request bounds, mapping 0 to the default horizon.
func ClampMinutes(minutes int) int {
	if minutes == 0 {
		return DefaultMinutes
	}
	if minutes < MinMinutes {
		return MinMinutes
	}
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return minutes
}
