package tle

import (
	"math"
	"strconv"
	"strings"
)

// Physical constants for element derivation.
const (
	// EarthMu is the standard gravitational parameter for Earth in km³/s².
	EarthMu = 398600.4418
	// EarthRadiusKm is the mean equatorial radius.
	EarthRadiusKm = 6378.1363

	secondsPerDay = 86400.0
	minutesPerDay = 1440.0
)

// DeriveElements computes physical orbital elements from the two lines of a
// TLE record. It is a pure function: identical input always yields identical
// output. On any malformed or non-finite field it returns false rather than
// an error — callers treat absence as a normal, displayable state.
//
// Line 2 fixed columns (0-indexed): inclination 8..16, eccentricity 26..33
// (implied leading decimal point), mean motion 52..63 (rev/day).
func DeriveElements(line1, line2 string) (Elements, bool) {
	if len(line2) < 63 || !strings.HasPrefix(line2, "2 ") {
		return Elements{}, false
	}

	incl, err := strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return Elements{}, false
	}

	eccStr := strings.TrimSpace(line2[26:33])
	eccDigits, err := strconv.ParseFloat(eccStr, 64)
	if err != nil {
		return Elements{}, false
	}
	ecc := eccDigits / 1e7

	meanMotion, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil || meanMotion <= 0 {
		return Elements{}, false
	}

	// Kepler III: a = (μ / n²)^(1/3) with n in rad/s.
	nRadS := meanMotion * 2 * math.Pi / secondsPerDay
	a := math.Cbrt(EarthMu / (nRadS * nRadS))

	apogee := a*(1+ecc) - EarthRadiusKm
	perigee := a*(1-ecc) - EarthRadiusKm
	period := minutesPerDay / meanMotion

	el := Elements{
		ApogeeKm:       apogee,
		PerigeeKm:      perigee,
		InclinationDeg: incl,
		PeriodMin:      period,
	}
	if !finite(apogee) || !finite(perigee) || !finite(incl) || !finite(period) {
		return Elements{}, false
	}
	return el, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
