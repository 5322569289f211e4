// Package wasmbin provides the low-level binary primitives the
// emitter composes into a WASM 1.0 module: unsigned LEB128 integers,
// little-endian f64 values, length-prefixed UTF-8 strings, and the
// `id, LEB128(length), payload` section framing shared by every
// section in the module.
package wasmbin

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Magic and Version are the eight bytes every WASM module begins
// with: "\0asm" followed by the binary format version, 1.
var (
	Magic   = []byte{0x00, 0x61, 0x73, 0x6D}
	Version = []byte{0x01, 0x00, 0x00, 0x00}
)

// Value types used by this module's signatures.
const (
	ValTypeF64 byte = 0x7C
	ValTypeI32 byte = 0x7F
)

const FuncTypeMarker byte = 0x60

// Section IDs, in the order they must appear in a module.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionCode     byte = 10
)

// Import kinds.
const (
	ImportKindFunc   byte = 0x00
	ImportKindGlobal byte = 0x03
)

// Export kinds.
const (
	ExportKindFunc   byte = 0x00
	ExportKindMemory byte = 0x02
)

// Mutability flags for globals.
const (
	Immutable byte = 0x00
	Mutable   byte = 0x01
)

// EncodeUint32 returns v as unsigned LEB128.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 returns v as unsigned LEB128.
func EncodeUint64(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

// WriteUint32 appends v to buf as unsigned LEB128.
func WriteUint32(buf *bytes.Buffer, v uint32) {
	buf.Write(EncodeUint32(v))
}

// DecodeUint32 reads an unsigned LEB128 value starting at buf[pos] and
// returns it along with the position just past it.
func DecodeUint32(buf []byte, pos int) (uint32, int) {
	var result uint32
	var shift uint
	for {
		b := buf[pos]
		pos++
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, pos
}

// WriteFloat64 appends v to buf as little-endian IEEE-754 binary64.
func WriteFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

// WriteString appends s to buf as LEB128(byte length) || UTF-8 bytes.
func WriteString(buf *bytes.Buffer, s string) {
	WriteUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

// Section wraps payload with its id and LEB128-encoded length, the
// framing every section in the module shares.
func Section(id byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(id)
	WriteUint32(&buf, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

// FuncType encodes a function signature of the given arity, all
// parameters and the single result being f64: `0x60, arity,
// f64×arity, 0x01, 0x7C`.
func FuncType(arity int) []byte {
	var buf bytes.Buffer
	buf.WriteByte(FuncTypeMarker)
	WriteUint32(&buf, uint32(arity))
	for i := 0; i < arity; i++ {
		buf.WriteByte(ValTypeF64)
	}
	buf.WriteByte(0x01)
	buf.WriteByte(ValTypeF64)
	return buf.Bytes()
}
