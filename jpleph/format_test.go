package jpleph

import (
	"encoding/binary"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		series uint32
		want   fileFormat
	}{
		{"inpop", 100, formatINPOP},
		{"inpop swapped", 0x64000000, formatINPOPSwapped},
		{"de405", 405, formatDE},
		{"de lower bound", 200, formatDE},
		{"de upper bound", 32768, formatDE},
		{"de405 swapped", 0x95010000, formatDESwapped},
		{"de200 swapped", 0xC8000000, formatDESwapped},
		{"zero", 0, formatUnknown},
		{"below de range", 199, formatUnknown},
		{"small both ways", 7, formatUnknown},
		{"swapped below de range", 0x32000000, formatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.series); got != tt.want {
				t.Errorf("detectFormat(0x%08x) = %v, want %v", tt.series, got, tt.want)
			}
		})
	}
}

func TestFileFormatByteOrder(t *testing.T) {
	if formatDE.byteOrder() != binary.LittleEndian ||
		formatINPOP.byteOrder() != binary.LittleEndian {
		t.Error("native formats must decode little endian")
	}
	if formatDESwapped.byteOrder() != binary.BigEndian ||
		formatINPOPSwapped.byteOrder() != binary.BigEndian {
		t.Error("swapped formats must decode big endian")
	}
	if formatDE.byteSwapped() || formatINPOP.byteSwapped() {
		t.Error("native formats must not report swapped")
	}
	if !formatDESwapped.byteSwapped() || !formatINPOPSwapped.byteSwapped() {
		t.Error("swapped formats must report swapped")
	}
}
