// Package jpleph loads JPL DE and IMCCE INPOP planetary ephemerides in
// their binary record format and evaluates body positions by Chebyshev
// interpolation.
package jpleph

// Body identifies a solar-system body tracked by an ephemeris.
type Body int

// Bodies in ephemeris record order. The last two are synthesized from
// tracked series rather than stored in the file.
const (
	Mercury Body = iota
	Venus
	EarthMoonBarycenter
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon // geocentric
	Sun
	Nutation // nutation angles, not a body
	SolarSystemBarycenter
	Earth
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case Mercury:
		return "Mercury"
	case Venus:
		return "Venus"
	case EarthMoonBarycenter:
		return "Earth-Moon barycenter"
	case Mars:
		return "Mars"
	case Jupiter:
		return "Jupiter"
	case Saturn:
		return "Saturn"
	case Uranus:
		return "Uranus"
	case Neptune:
		return "Neptune"
	case Pluto:
		return "Pluto"
	case Moon:
		return "Moon"
	case Sun:
		return "Sun"
	case Nutation:
		return "nutation"
	case SolarSystemBarycenter:
		return "solar system barycenter"
	case Earth:
		return "Earth"
	default:
		return "unknown"
	}
}

// coeffLayout locates one Chebyshev series inside a coefficient record.
// The offset is relative to the start of the record's coefficient block,
// after the two leading time slots. A granule count of 1 means a single
// polynomial spans the whole record interval.
type coeffLayout struct {
	offset   int // index of the first coefficient
	coeffs   int // coefficients per component per granule
	granules int // granules per record
}

// record is one coefficient record: the Julian dates it covers and the
// Chebyshev coefficients for every tracked series.
type record struct {
	t0, t1 float64
	coeffs []float64
}

// Ephemeris is a fully loaded DE or INPOP ephemeris. It is immutable
// after loading and safe for concurrent use.
type Ephemeris struct {
	deNumber int
	swapped  bool

	startDate       float64 // Julian date covered by the first record
	endDate         float64 // Julian date covered by the last record
	daysPerInterval float64 // days spanned by one record

	au                 float64 // kilometers per astronomical unit
	earthMoonMassRatio float64

	layouts   [trackedItems]coeffLayout
	libration coeffLayout // offset kept as stored; adjusted at evaluation

	recordSize int // doubles per record, including the two time slots
	records    []record
}

// DENumber returns the ephemeris series number, e.g. 405 for DE405.
// INPOP files report 100.
func (e *Ephemeris) DENumber() int {
	return e.deNumber
}

// StartDate returns the first Julian date covered by the ephemeris.
func (e *Ephemeris) StartDate() float64 {
	return e.startDate
}

// EndDate returns the last Julian date covered by the ephemeris.
func (e *Ephemeris) EndDate() float64 {
	return e.endDate
}

// DaysPerInterval returns the time span of one coefficient record in days.
func (e *Ephemeris) DaysPerInterval() float64 {
	return e.daysPerInterval
}

// AU returns the length of the astronomical unit in kilometers as stored
// in the file.
func (e *Ephemeris) AU() float64 {
	return e.au
}

// EarthMoonMassRatio returns the Earth/Moon mass ratio as stored in the
// file.
func (e *Ephemeris) EarthMoonMassRatio() float64 {
	return e.earthMoonMassRatio
}

// RecordSize returns the number of doubles per coefficient record.
func (e *Ephemeris) RecordSize() int {
	return e.recordSize
}

// RecordCount returns the number of coefficient records.
func (e *Ephemeris) RecordCount() int {
	return len(e.records)
}

// ByteSwapped reports whether the file's byte order is the opposite of
// the format's native little-endian encoding.
func (e *Ephemeris) ByteSwapped() bool {
	return e.swapped
}

// HasLibration reports whether the file carries lunar libration series.
func (e *Ephemeris) HasLibration() bool {
	return e.libration.coeffs > 0 && e.libration.granules > 0
}
