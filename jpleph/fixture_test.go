package jpleph

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureSeries holds one series triple exactly as stored on disk:
// 1-based offsets counting the two time slots, sentinel granule counts
// allowed.
type fixtureSeries struct {
	offset   uint32
	coeffs   uint32
	granules uint32
}

// fixtureFile assembles complete DE and INPOP byte streams for loader
// tests, in either byte order.
type fixtureFile struct {
	order       binary.ByteOrder
	inpop       bool
	series      uint32
	start       float64
	end         float64
	interval    float64
	constCount  uint32
	au          float64
	emrat       float64
	items       [trackedItems]fixtureSeries
	libr        fixtureSeries
	trailerSize uint32 // INPOP stored record size; 0 means derived

	// Coefficient blocks per record, without the two time slots; short
	// blocks are zero-padded to the record size.
	records [][]float64
}

// defaultFixture returns a two-record DE405-style file with a single
// Mercury series of two coefficients spanning whole records.
func defaultFixture(order binary.ByteOrder) *fixtureFile {
	f := &fixtureFile{
		order:    order,
		series:   405,
		start:    2440400.5,
		end:      2440464.5,
		interval: 32,
		au:       149597870.7,
		emrat:    81.25,
	}
	f.items[0] = fixtureSeries{offset: 3, coeffs: 2, granules: wholeRecordGranules}
	f.records = [][]float64{
		{1.5, 0.25, -2, 0.5, 10, -1},
		{4, 1, 0.5, -0.25, 3, 2},
	}
	return f
}

// recordSize re-derives the double count per record the same way a
// reader of the format would.
func (f *fixtureFile) recordSize() int {
	count := func(s fixtureSeries, comps int) int {
		n := int(s.granules)
		if s.granules == wholeRecordGranules {
			n = 1
		}
		return int(s.coeffs) * n * comps
	}

	size := 2
	for i, s := range f.items {
		comps := 3
		if i == nutationItem {
			comps = 2
		}
		size += count(s, comps)
	}
	return size + count(f.libr, 3)
}

// build serializes the fixture into a loadable byte stream.
func (f *fixtureFile) build() []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, labelCount*labelSize))
	buf.Write(make([]byte, constNameCount*constNameSize))
	f.f64(&buf, f.start)
	f.f64(&buf, f.end)
	f.f64(&buf, f.interval)
	f.u32(&buf, f.constCount)
	f.f64(&buf, f.au)
	f.f64(&buf, f.emrat)
	for _, s := range f.items {
		f.u32(&buf, s.offset)
		f.u32(&buf, s.coeffs)
		f.u32(&buf, s.granules)
	}
	f.u32(&buf, f.series)
	f.u32(&buf, f.libr.offset)
	f.u32(&buf, f.libr.coeffs)
	f.u32(&buf, f.libr.granules)

	size := f.recordSize()
	if f.inpop {
		stored := uint32(size)
		if f.trailerSize != 0 {
			stored = f.trailerSize
			size = int(stored)
		}
		f.u32(&buf, stored)
	}

	// Readers skip forward to the end of the first record-size block.
	f.padTo(&buf, size*8)

	// Constant-value record.
	buf.Write(make([]byte, size*8))

	for i, coeffs := range f.records {
		t0 := f.start + float64(i)*f.interval
		f.f64(&buf, t0)
		f.f64(&buf, t0+f.interval)
		for _, c := range coeffs {
			f.f64(&buf, c)
		}
		for j := len(coeffs); j < size-2; j++ {
			f.f64(&buf, 0)
		}
	}
	return buf.Bytes()
}

func (f *fixtureFile) u32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	f.order.PutUint32(b[:], v)
	buf.Write(b[:])
}

func (f *fixtureFile) f64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	f.order.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func (f *fixtureFile) padTo(buf *bytes.Buffer, n int) {
	if buf.Len() < n {
		buf.Write(make([]byte, n-buf.Len()))
	}
}

// loadFixture builds and loads a fixture, failing the test on any error.
func loadFixture(t *testing.T, f *fixtureFile) *Ephemeris {
	t.Helper()
	e, err := Load(bytes.NewReader(f.build()))
	require.NoError(t, err)
	return e
}
