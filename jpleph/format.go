package jpleph

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
)

// Binary layout of the DE/INPOP file header. All multi-byte fields are
// little endian unless the whole file is byte-swapped.
const (
	labelCount     = 3   // descriptive text labels
	labelSize      = 84  // bytes per label
	constNameCount = 400 // constant name slots
	constNameSize  = 6   // bytes per constant name

	headerSize = 2856 // total header bytes

	// The series number sits between the twelve layout triples and the
	// libration triple.
	seriesNumberOffset = headerSize - 16

	trackedItems = 12 // Mercury through nutation
	nutationItem = 11 // two components instead of three

	// A granule count of all ones marks a single polynomial spanning
	// the whole record interval.
	wholeRecordGranules = 0xFFFFFFFF

	// INPOP files store this sentinel in the series number slot.
	inpopSeriesNumber = 100

	// DE series numbers occupy this range; a larger value only makes
	// sense as a byte-swapped number.
	minSeriesNumber = 200
	maxSeriesNumber = 1 << 15

	// Longest Chebyshev series the evaluator supports. Real files stay
	// well below this.
	maxChebyshevCoeffs = 32
)

var (
	// ErrUnrecognizedFormat means the series number field matches no
	// known DE or INPOP encoding in either byte order.
	ErrUnrecognizedFormat = errors.New("unrecognized ephemeris format")

	// ErrMalformedHeader means the header decoded but its fields are
	// internally inconsistent.
	ErrMalformedHeader = errors.New("malformed ephemeris header")
)

// fileFormat classifies an ephemeris file by family and byte order.
type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatDE
	formatDESwapped
	formatINPOP
	formatINPOPSwapped
)

// String returns the format name.
func (f fileFormat) String() string {
	switch f {
	case formatDE:
		return "DE"
	case formatDESwapped:
		return "DE (byte-swapped)"
	case formatINPOP:
		return "INPOP"
	case formatINPOPSwapped:
		return "INPOP (byte-swapped)"
	default:
		return "unknown"
	}
}

// inpop reports whether the format carries the INPOP record-size trailer.
func (f fileFormat) inpop() bool {
	return f == formatINPOP || f == formatINPOPSwapped
}

// byteSwapped reports whether fields must be decoded big endian.
func (f fileFormat) byteSwapped() bool {
	return f == formatDESwapped || f == formatINPOPSwapped
}

// byteOrder returns the byte order the file's fields are encoded in.
func (f fileFormat) byteOrder() binary.ByteOrder {
	if f.byteSwapped() {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// detectFormat classifies the raw series number field of a header. The
// field is decoded little endian first; a value that only makes sense
// after swapping means the whole file is big endian.
func detectFormat(series uint32) fileFormat {
	swapped := bits.ReverseBytes32(series)
	switch {
	case series == inpopSeriesNumber:
		return formatINPOP
	case swapped == inpopSeriesNumber:
		return formatINPOPSwapped
	case series > maxSeriesNumber && swapped >= minSeriesNumber:
		return formatDESwapped
	case series >= minSeriesNumber && series <= maxSeriesNumber:
		return formatDE
	default:
		return formatUnknown
	}
}

// cursor decodes consecutive fields from an in-memory header block.
// Offsets are fixed by the format, so reads cannot fail once the block
// itself has been read in full.
type cursor struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func (c *cursor) skip(n int) {
	c.off += n
}

func (c *cursor) uint32() uint32 {
	v := c.order.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

func (c *cursor) float64() float64 {
	v := math.Float64frombits(c.order.Uint64(c.buf[c.off:]))
	c.off += 8
	return v
}
