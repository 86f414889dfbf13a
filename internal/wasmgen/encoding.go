package wasmgen

import (
	"encoding/binary"
	"math"
)

// Wasm binary format constants.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6D} // \0asm
var wasmVersion = []byte{0x01, 0x00, 0x00, 0x00}

// Section IDs, in the canonical order they must appear in the module.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionExport   byte = 7
	sectionCode     byte = 10
)

// Value types. chasm only ever declares f32 locals, but params/results of
// the print import are f32 too, and comparisons produce i32 transiently.
const (
	valI32 byte = 0x7F
	valF32 byte = 0x7D
)

// Import/export kinds.
const (
	externFunc   byte = 0x00
	externMemory byte = 0x02
)

// blockVoid is the blocktype byte for a block/loop/if with no result.
const blockVoid byte = 0x40

// Opcodes. Names mirror the Wasm spec's own mnemonics. All are emitted by
// Body except opI32Const and opF32Ne, which are declared but never used.
const (
	opBlock byte = 0x02
	opLoop  byte = 0x03
	opIf    byte = 0x04
	opElse  byte = 0x05
	opEnd   byte = 0x0B
	opBr    byte = 0x0C
	opBrIf  byte = 0x0D
	opCall  byte = 0x10

	opLocalGet byte = 0x20
	opLocalSet byte = 0x21

	opI32Store8 byte = 0x3A

	opI32Const byte = 0x41
	opF32Const byte = 0x43

	opI32Eqz byte = 0x45

	opF32Eq byte = 0x5B
	opF32Ne byte = 0x5C
	opF32Lt byte = 0x5D
	opF32Gt byte = 0x5E

	opI32And byte = 0x71
	opI32Or  byte = 0x72

	opF32Add byte = 0x92
	opF32Sub byte = 0x93
	opF32Mul byte = 0x94
	opF32Div byte = 0x95

	opI32TruncF32S   byte = 0xA8
	opF32ConvertI32S byte = 0xB2
)

// encodeLEB128U encodes value as unsigned LEB128.
func encodeLEB128U(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var result []byte
	for value > 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

// encodeLEB128S encodes value as signed LEB128.
func encodeLEB128S(value int64) []byte {
	var result []byte
	more := true
	for more {
		b := byte(value & 0x7F)
		value >>= 7
		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

// encodeF32 encodes value as 4 little-endian bytes (IEEE-754 single precision).
func encodeF32(value float32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(value))
	return buf[:]
}

// encodeString encodes a UTF-8 name as a LEB128 length prefix plus raw bytes.
func encodeString(s string) []byte {
	result := encodeLEB128U(uint64(len(s)))
	return append(result, []byte(s)...)
}

// encodeVector encodes a count-prefixed vector of already-serialised items.
func encodeVector(count int, items []byte) []byte {
	result := encodeLEB128U(uint64(count))
	return append(result, items...)
}

// encodeSection frames a section's id and length-prefixed payload.
func encodeSection(id byte, contents []byte) []byte {
	result := []byte{id}
	result = append(result, encodeLEB128U(uint64(len(contents)))...)
	return append(result, contents...)
}
