// Package textutil provides the UTF-16 text representation used by document
// blocks, conversions between UTF-16 offsets and code point offsets, and
// binary sniffing for document files.
package textutil

import (
	"bytes"
	"unicode/utf16"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// UTF16 is block text as a sequence of UTF-16 code units. Offsets into
// documents count code units, so a surrogate pair occupies two positions.
// Values are treated as immutable; every operation returns fresh storage or a
// capacity-clipped subslice.
type UTF16 []uint16

// FromString encodes s as UTF-16.
func FromString(s string) UTF16 {
	if s == "" {
		return nil
	}

	return utf16.Encode([]rune(s))
}

// String decodes the text back to a Go string.
func (t UTF16) String() string {
	return string(utf16.Decode(t))
}

// Len returns the length in code units.
func (t UTF16) Len() int {
	return len(t)
}

// Slice returns t[start:end] clamped to bounds. The result shares storage
// with t but cannot be appended into it.
func (t UTF16) Slice(start, end int) UTF16 {
	start = max(0, min(start, len(t)))
	end = max(start, min(end, len(t)))

	return t[start:end:end]
}

// Concat joins parts into newly allocated text.
func Concat(parts ...UTF16) UTF16 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	if n == 0 {
		return nil
	}

	out := make(UTF16, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// Splice replaces t[start:end] with insert.
func (t UTF16) Splice(start, end int, insert UTF16) UTF16 {
	return Concat(t.Slice(0, start), insert, t.Slice(end, len(t)))
}

// Equal reports whether both texts hold the same code units.
func (t UTF16) Equal(other UTF16) bool {
	if len(t) != len(other) {
		return false
	}

	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}

	return true
}

// Index returns the first position of unit at or after from, or -1.
func (t UTF16) Index(unit uint16, from int) int {
	for i := max(from, 0); i < len(t); i++ {
		if t[i] == unit {
			return i
		}
	}

	return -1
}

// CodePointLen returns the number of code points in t. An unpaired surrogate
// counts as one code point.
func (t UTF16) CodePointLen() int {
	return t.UnitToCodePoint(len(t))
}

// UnitToCodePoint converts a code unit offset to a code point offset. An
// offset that splits a surrogate pair maps to the pair's code point.
func (t UTF16) UnitToCodePoint(unit int) int {
	unit = max(0, min(unit, len(t)))
	cp := 0

	for i := 0; i < unit; i++ {
		if isPair(t, i) {
			i++
		}

		cp++
	}

	return cp
}

// CodePointToUnit converts a code point offset to a code unit offset,
// clamped to the text length.
func (t UTF16) CodePointToUnit(cp int) int {
	unit := 0

	for n := 0; n < cp && unit < len(t); n++ {
		if isPair(t, unit) {
			unit++
		}

		unit++
	}

	return unit
}

func isPair(t UTF16, i int) bool {
	return i+1 < len(t) && utf16.IsSurrogate(rune(t[i])) && t[i] < 0xDC00 && t[i+1] >= 0xDC00 && t[i+1] <= 0xDFFF
}

// UnitOffset converts a byte offset into s to a UTF-16 code unit offset.
func UnitOffset(s string, byteOffset int) int {
	units := 0

	for _, r := range s[:max(0, min(byteOffset, len(s)))] {
		units += utf16.RuneLen(r)
	}

	return units
}
