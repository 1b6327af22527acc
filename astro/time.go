package astro

import (
	"math"
	"time"
)

// J2000 is the Julian date of the standard J2000.0 epoch,
// 2000 January 1 12:00 TT.
const J2000 = 2451545.0

// JulianDate returns the Julian date for a given time.
func JulianDate(t time.Time) float64 {
	// Convert to UTC
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	// Time of day as fraction
	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Adjust for January/February (treat as months 13/14 of previous year)
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	// Julian Date formula
	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5

	return jd
}

// JulianCenturies returns the number of Julian centuries between the
// J2000.0 epoch and the given Julian date.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}
