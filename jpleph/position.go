package jpleph

import (
	"time"

	"github.com/litescript/ls-ephemeris/astro"
)

// Position returns the position of body at tjd, a TDB Julian date, in
// kilometers relative to the solar system barycenter. Moon positions are
// relative to Earth's center; Nutation queries carry the two nutation
// angles in X and Y.
//
// Times outside the ephemeris range clamp to its boundary. Series the
// file does not carry, and body values outside the enumeration, yield
// the zero vector.
func (e *Ephemeris) Position(body Body, tjd float64) astro.Vec3 {
	switch body {
	case SolarSystemBarycenter:
		// The barycenter is the origin of every tracked series.
		return astro.Vec3{}
	case Earth:
		emb := e.Position(EarthMoonBarycenter, tjd)
		moon := e.Position(Moon, tjd)
		return emb.Sub(moon.Scale(1 / (e.earthMoonMassRatio + 1)))
	}
	if body < Mercury || body > Nutation {
		return astro.Vec3{}
	}
	return e.interpolate(e.layouts[body], components(int(body)), tjd)
}

// PositionAt is Position keyed by civil time. The offset between UTC and
// the ephemeris timescale (TDB, about a minute) is not applied.
func (e *Ephemeris) PositionAt(body Body, t time.Time) astro.Vec3 {
	return e.Position(body, astro.JulianDate(t))
}

// Libration returns the lunar libration angles in radians at tjd, or the
// zero vector for files without libration series.
func (e *Ephemeris) Libration(tjd float64) astro.Vec3 {
	l := e.libration
	l.offset -= 3 // stored form counts from 1 and includes the time slots
	return e.interpolate(l, 3, tjd)
}

// interpolate evaluates one series at tjd: pick the record, pick the
// granule inside it, map the granule window onto [-1, 1] and run the
// Chebyshev recurrence once for all components.
func (e *Ephemeris) interpolate(l coeffLayout, comps int, tjd float64) astro.Vec3 {
	if l.coeffs == 0 || l.granules == 0 {
		return astro.Vec3{}
	}

	if tjd < e.startDate {
		tjd = e.startDate
	} else if tjd > e.endDate {
		tjd = e.endDate
	}

	rec := int((tjd - e.startDate) / e.daysPerInterval)
	if rec >= len(e.records) {
		rec = len(e.records) - 1
	} else if rec < 0 {
		rec = 0
	}
	r := &e.records[rec]

	span := e.daysPerInterval / float64(l.granules)
	g := int((tjd - r.t0) / span)
	if g >= l.granules {
		g = l.granules - 1
	} else if g < 0 {
		g = 0
	}
	u := 2*(tjd-(r.t0+float64(g)*span))/span - 1

	var tk [maxChebyshevCoeffs]float64
	tk[0] = 1
	if l.coeffs > 1 {
		tk[1] = u
		for k := 2; k < l.coeffs; k++ {
			tk[k] = 2*u*tk[k-1] - tk[k-2]
		}
	}

	base := l.offset + g*l.coeffs*comps
	var out [3]float64
	for c := 0; c < comps; c++ {
		cc := r.coeffs[base+c*l.coeffs:]
		var sum float64
		for k := 0; k < l.coeffs; k++ {
			sum += cc[k] * tk[k]
		}
		out[c] = sum
	}
	return astro.Vec3{X: out[0], Y: out[1], Z: out[2]}
}
