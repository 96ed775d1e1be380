// Package propagation turns TLE records into uniformly time-spaced
// position/velocity sample sequences using SGP4. This is the service side of
// the system: the playback engine never propagates, it consumes these
// samples.
package propagation

import (
	"fmt"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/tle"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// SGP4 library choice: github.com/joshuaferrara/go-satellite
//
// Selected for: most community adoption, pure Go (no CGO), battle-tested
// since 2016, explicit TEME output.
//
// Note: Propagate() takes Satellite by value so SGP4 error codes are not
// visible to the caller. We detect propagation failures by checking output
// for NaN/Inf and unreasonable position magnitudes.

// SampleIntervalSec is the fixed spacing between generated samples.
const SampleIntervalSec = 60

// Sanity bounds on position magnitude (km from the Earth's center).
const (
	minPositionKm = 6200.0
	maxPositionKm = 50000.0
)

// Sampler generates sample sequences from TLE lines, starting at the TLE
// epoch.
type Sampler struct{}

// NewSampler creates a Sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Samples propagates the TLE over the given number of minutes and returns
// one sample per minute beginning at the TLE epoch. Steps where SGP4
// produces non-finite or out-of-range output are skipped, matching the
// uniform-spacing assumption only up to those gaps; the skipped count is
// returned so callers can log it.
func (s *Sampler) Samples(line1, line2 string, minutes int) ([]trajectory.Sample, int, error) {
	if err := validateTLELines(line1, line2); err != nil {
		return nil, 0, err
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, 0, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}

	epoch, ok := tle.ParseEpoch(line1)
	if !ok {
		return nil, 0, fmt.Errorf("invalid TLE epoch")
	}

	samples := make([]trajectory.Sample, 0, minutes+1)
	skipped := 0
	for m := 0; m <= minutes; m++ {
		t := epoch.Add(time.Duration(m) * time.Minute).UTC()
		pos, vel := satellite.Propagate(sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

		r := geom.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
		v := geom.Vec3{X: vel.X, Y: vel.Y, Z: vel.Z}
		if !r.IsFinite() || !v.IsFinite() {
			skipped++
			continue
		}
		if mag := r.Norm(); mag < minPositionKm || mag > maxPositionKm {
			skipped++
			continue
		}

		samples = append(samples, trajectory.Sample{
			T: float64(m) * SampleIntervalSec,
			R: r,
			V: v,
		})
	}

	return samples, skipped, nil
}

// Epoch returns the TLE epoch for line 1, or an error when malformed.
func (s *Sampler) Epoch(line1 string) (time.Time, error) {
	epoch, ok := tle.ParseEpoch(line1)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid TLE epoch")
	}
	return epoch, nil
}

// validateTLELines performs basic format validation on TLE lines.
// This prevents passing garbage to go-satellite which calls log.Fatal on
// parse errors (which would kill the process).
func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}
