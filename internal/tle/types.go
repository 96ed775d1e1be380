package tle

import "time"

// Record is a single object's two-line element set with its catalog name.
type Record struct {
	Name    string
	NoradID int
	Epoch   time.Time
	Line1   string
	Line2   string
}

// Elements holds the physical orbital elements derived from a TLE record.
// Apogee and perigee are altitudes above the mean equatorial radius.
type Elements struct {
	ApogeeKm       float64
	PerigeeKm      float64
	InclinationDeg float64
	PeriodMin      float64
}
