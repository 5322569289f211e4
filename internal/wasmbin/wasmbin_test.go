package wasmbin

import (
	"bytes"
	"math"
	"testing"
)

// Reference values taken from the canonical LEB128 encode/decode
// fixtures (e.g. wazero's internal/leb128 tests): 624485 and 16256
// unsigned.
func TestEncodeUint32(t *testing.T) {
	tests := []struct {
		input uint32
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{16256, []byte{0x80, 0x7F}},
		{624485, []byte{0xE5, 0x8E, 0x26}},
	}
	for _, tt := range tests {
		got := EncodeUint32(tt.input)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeUint32(%d) = % x, want % x", tt.input, got, tt.want)
		}
	}
}

func TestWriteFloat64LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	WriteFloat64(&buf, 1.0)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteFloat64(1.0) = % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteFloat64RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	WriteFloat64(&buf, math.Pi)
	bits := uint64(0)
	for i := 7; i >= 0; i-- {
		bits = bits<<8 | uint64(buf.Bytes()[i])
	}
	if math.Float64frombits(bits) != math.Pi {
		t.Errorf("round-trip mismatch")
	}
}

func TestWriteString(t *testing.T) {
	var buf bytes.Buffer
	WriteString(&buf, "redraw")
	want := append([]byte{0x06}, []byte("redraw")...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteString = % x, want % x", buf.Bytes(), want)
	}
}

func TestSectionFraming(t *testing.T) {
	got := Section(SectionMemory, []byte{0xAA, 0xBB})
	want := []byte{SectionMemory, 0x02, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Errorf("Section = % x, want % x", got, want)
	}
}

func TestFuncTypeArityZero(t *testing.T) {
	got := FuncType(0)
	want := []byte{FuncTypeMarker, 0x00, 0x01, ValTypeF64}
	if !bytes.Equal(got, want) {
		t.Errorf("FuncType(0) = % x, want % x", got, want)
	}
}

func TestFuncTypeArityTwo(t *testing.T) {
	got := FuncType(2)
	want := []byte{FuncTypeMarker, 0x02, ValTypeF64, ValTypeF64, 0x01, ValTypeF64}
	if !bytes.Equal(got, want) {
		t.Errorf("FuncType(2) = % x, want % x", got, want)
	}
}
