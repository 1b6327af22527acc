package jpleph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// Plausibility bounds applied before any record allocation.
const (
	maxRecordSize  = 1 << 20 // doubles per record
	maxRecordCount = 1 << 20 // records per file
)

// LoadOption configures Load.
type LoadOption func(*loader)

// WithLogger directs load progress records to l. By default nothing is
// logged.
func WithLogger(l *slog.Logger) LoadOption {
	return func(ld *loader) {
		ld.log = l
	}
}

type loader struct {
	log *slog.Logger
}

// Load reads a complete DE or INPOP ephemeris from r: the header, the
// constant-value record and every coefficient record. Byte order is
// detected from the header, so files written on either architecture
// load everywhere. On error no ephemeris is returned.
func Load(r io.Reader, opts ...LoadOption) (*Ephemeris, error) {
	ld := loader{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&ld)
	}
	return ld.load(r)
}

func (ld *loader) load(r io.Reader) (*Ephemeris, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	series := binary.LittleEndian.Uint32(hdr[seriesNumberOffset:])
	format := detectFormat(series)
	if format == formatUnknown {
		return nil, fmt.Errorf("%w: series number field 0x%08x", ErrUnrecognizedFormat, series)
	}
	ld.log.Debug("detected ephemeris format", "format", format)

	order := format.byteOrder()
	e := decodeHeader(hdr, format)

	if format.inpop() {
		// INPOP states its record size explicitly after the header; it
		// may exceed the derived size when the file carries extra
		// series, so the stored value wins.
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("read stored record size: %w", err)
		}
		e.recordSize = int(order.Uint32(buf[:]))
		if err := skipBytes(r, int64(e.recordSize)*8-headerSize-4); err != nil {
			return nil, fmt.Errorf("skip header padding: %w", err)
		}
	} else {
		if err := skipBytes(r, int64(e.recordSize)*8-headerSize); err != nil {
			return nil, fmt.Errorf("skip header padding: %w", err)
		}
	}

	if err := e.validate(); err != nil {
		return nil, err
	}

	count := int(math.Floor((e.endDate - e.startDate) / e.daysPerInterval))

	// The constant-value record carries no coefficients.
	if err := skipBytes(r, int64(e.recordSize)*8); err != nil {
		return nil, fmt.Errorf("skip constant record: %w", err)
	}

	raw := make([]byte, e.recordSize*8)
	e.records = make([]record, 0, count)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("read record %d of %d: %w", i+1, count, err)
		}
		vals := decodeFloats(raw, order)
		e.records = append(e.records, record{t0: vals[0], t1: vals[1], coeffs: vals[2:]})
	}

	ld.log.Debug("ephemeris loaded",
		"series", e.deNumber,
		"start", e.startDate,
		"end", e.endDate,
		"interval", e.daysPerInterval,
		"recordSize", e.recordSize,
		"records", len(e.records))
	return e, nil
}

// decodeHeader reads every header field in file order with the detected
// byte order. Validation happens separately once the record size is
// final.
func decodeHeader(hdr []byte, format fileFormat) *Ephemeris {
	cur := cursor{buf: hdr, order: format.byteOrder()}
	cur.skip(labelCount * labelSize)
	cur.skip(constNameCount * constNameSize)

	e := &Ephemeris{swapped: format.byteSwapped()}
	e.startDate = cur.float64()
	e.endDate = cur.float64()
	e.daysPerInterval = cur.float64()
	cur.skip(4) // constant count, not retained
	e.au = cur.float64()
	e.earthMoonMassRatio = cur.float64()

	for i := range e.layouts {
		off := cur.uint32()
		nc := cur.uint32()
		ng := cur.uint32()
		// Stored offsets count from 1 and include the two time slots.
		e.layouts[i] = coeffLayout{
			offset:   int(off) - 3,
			coeffs:   int(nc),
			granules: granuleCount(ng),
		}
	}

	e.deNumber = int(cur.uint32())

	// The libration offset keeps its stored form; the evaluator applies
	// the adjustment.
	e.libration = coeffLayout{
		offset:   int(cur.uint32()),
		coeffs:   int(cur.uint32()),
		granules: granuleCount(cur.uint32()),
	}

	e.recordSize = e.derivedRecordSize()
	return e
}

// granuleCount maps the whole-record sentinel to a single granule.
func granuleCount(ng uint32) int {
	if ng == wholeRecordGranules {
		return 1
	}
	return int(ng)
}

// components returns how many coordinates series item carries.
func components(item int) int {
	if item == nutationItem {
		return 2
	}
	return 3
}

// derivedRecordSize sums the series block sizes plus the two time slots.
// DE files imply their record size; INPOP files state it.
func (e *Ephemeris) derivedRecordSize() int {
	size := 2
	for i, l := range e.layouts {
		size += l.coeffs * l.granules * components(i)
	}
	size += e.libration.coeffs * e.libration.granules * 3
	return size
}

// validate rejects headers the evaluator could not serve safely. A
// libration block that does not fit is dropped instead of refused; the
// planetary series do not depend on it.
func (e *Ephemeris) validate() error {
	switch {
	case !isFinite(e.startDate) || !isFinite(e.endDate) || !isFinite(e.daysPerInterval):
		return fmt.Errorf("%w: non-finite time bounds", ErrMalformedHeader)
	case e.daysPerInterval <= 0:
		return fmt.Errorf("%w: record interval %g days", ErrMalformedHeader, e.daysPerInterval)
	case e.endDate <= e.startDate:
		return fmt.Errorf("%w: time range %g .. %g", ErrMalformedHeader, e.startDate, e.endDate)
	case e.recordSize < 2 || e.recordSize > maxRecordSize:
		return fmt.Errorf("%w: record size %d doubles", ErrMalformedHeader, e.recordSize)
	}

	count := math.Floor((e.endDate - e.startDate) / e.daysPerInterval)
	if count < 1 || count > maxRecordCount {
		return fmt.Errorf("%w: %g records", ErrMalformedHeader, count)
	}

	for i, l := range e.layouts {
		if err := checkLayout(l, components(i), e.recordSize); err != nil {
			return fmt.Errorf("series %s: %w", Body(i), err)
		}
	}

	libr := e.libration
	libr.offset -= 3
	if checkLayout(libr, 3, e.recordSize) != nil {
		e.libration = coeffLayout{}
	}
	return nil
}

// checkLayout verifies that a series block lies inside the coefficient
// part of a record. Empty series are fine; they evaluate to zero.
func checkLayout(l coeffLayout, comps, recordSize int) error {
	if l.coeffs == 0 || l.granules == 0 {
		return nil
	}
	if l.coeffs > maxChebyshevCoeffs {
		return fmt.Errorf("%w: %d coefficients per granule", ErrMalformedHeader, l.coeffs)
	}
	if l.offset < 0 || l.offset+l.coeffs*l.granules*comps > recordSize-2 {
		return fmt.Errorf("%w: series block outside record", ErrMalformedHeader)
	}
	return nil
}

// decodeFloats converts a raw record into doubles.
func decodeFloats(raw []byte, order binary.ByteOrder) []float64 {
	vals := make([]float64, len(raw)/8)
	for i := range vals {
		vals[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
	}
	return vals
}

// skipBytes discards exactly n bytes from r. Negative lengths arise with
// records smaller than the header; nothing needs skipping then.
func skipBytes(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
