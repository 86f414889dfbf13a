package wasmgen

import (
	"math"
	"testing"
)

func TestEncodeLEB128U(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{624485, []byte{0xE5, 0x8E, 0x26}},
	}
	for _, c := range cases {
		got := encodeLEB128U(c.value)
		if !bytesEqual(got, c.want) {
			t.Errorf("encodeLEB128U(%d) = %x, want %x", c.value, got, c.want)
		}
	}
}

func TestEncodeLEB128S(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7F}},
		{63, []byte{0x3F}},
		{-64, []byte{0x40}},
		{64, []byte{0xC0, 0x00}},
		{-129, []byte{0xFF, 0x7E}},
	}
	for _, c := range cases {
		got := encodeLEB128S(c.value)
		if !bytesEqual(got, c.want) {
			t.Errorf("encodeLEB128S(%d) = %x, want %x", c.value, got, c.want)
		}
	}
}

func TestEncodeLEB128URoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 2, 100, 12345, 1 << 20, 1 << 40} {
		encoded := encodeLEB128U(v)
		got, n := decodeLEB128U(encoded)
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
		if n != len(encoded) {
			t.Errorf("round trip %d: consumed %d bytes, encoded was %d", v, n, len(encoded))
		}
	}
}

func TestEncodeF32(t *testing.T) {
	got := encodeF32(1.0)
	want := []byte{0x00, 0x00, 0x80, 0x3F}
	if !bytesEqual(got, want) {
		t.Errorf("encodeF32(1.0) = %x, want %x", got, want)
	}

	if len(encodeF32(3.14)) != 4 {
		t.Errorf("encodeF32 must always produce 4 bytes")
	}

	// NaN bit pattern round trips through math.Float32bits/frombits.
	nan := float32(math.NaN())
	encoded := encodeF32(nan)
	bits := uint32(encoded[0]) | uint32(encoded[1])<<8 | uint32(encoded[2])<<16 | uint32(encoded[3])<<24
	if !math.IsNaN(float64(math.Float32frombits(bits))) {
		t.Error("encodeF32(NaN) did not round trip to NaN")
	}
}

func TestEncodeString(t *testing.T) {
	got := encodeString("print")
	want := append([]byte{5}, []byte("print")...)
	if !bytesEqual(got, want) {
		t.Errorf("encodeString(print) = %x, want %x", got, want)
	}

	if !bytesEqual(encodeString(""), []byte{0}) {
		t.Error("encodeString(\"\") should be just the zero length prefix")
	}
}

func TestEncodeVector(t *testing.T) {
	got := encodeVector(2, []byte{0xAA, 0xBB})
	want := []byte{0x02, 0xAA, 0xBB}
	if !bytesEqual(got, want) {
		t.Errorf("encodeVector = %x, want %x", got, want)
	}
}

func TestEncodeSection(t *testing.T) {
	got := encodeSection(sectionType, []byte{0x01, 0x02, 0x03})
	want := []byte{sectionType, 0x03, 0x01, 0x02, 0x03}
	if !bytesEqual(got, want) {
		t.Errorf("encodeSection = %x, want %x", got, want)
	}
}

// --- Helpers, in the style of the corpus's own hand-rolled Wasm test helpers ---

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func decodeLEB128U(data []byte) (uint64, int) {
	var result uint64
	var shift uint
	for i := 0; i < len(data); i++ {
		b := data[i]
		result |= uint64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			return result, i + 1
		}
	}
	return result, len(data)
}
