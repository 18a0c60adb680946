// Package varint implements the QUIC variable-length integer encoding used
// throughout HTTP/3 and WebTransport: unsigned values in the range
// 0 .. 2^62-1, encoded as 1, 2, 4 or 8 bytes with the two high bits of the
// first byte selecting the length.
//
// The wire format is RFC 9000 §16; encoding and decoding build on quic-go's
// own quicvarint package rather than reimplementing the bit layout.
package varint

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// Max is the largest value representable in 62 bits.
const Max = uint64(1)<<62 - 1

// ErrUnexpectedEnd is returned when buf does not contain enough bytes to
// decode a complete VarInt.
var ErrUnexpectedEnd = errors.New("varint: unexpected end of buffer")

// ErrOverflow is returned by FromUint64 when the given value cannot be
// represented in 62 bits.
var ErrOverflow = errors.New("varint: value exceeds 62-bit range")

// Decode reads a single VarInt from the front of buf, returning the value
// and the number of bytes consumed.
func Decode(buf []byte) (value uint64, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, ErrUnexpectedEnd
	}
	length := Len(buf[0])
	if len(buf) < length {
		return 0, 0, ErrUnexpectedEnd
	}
	v, err := quicvarint.Read(bytes.NewReader(buf[:length]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnexpectedEnd, err)
	}
	return v, length, nil
}

// Len returns the total wire length of a VarInt given its first byte, by
// inspecting the two high bits (00->1, 01->2, 10->4, 11->8).
func Len(firstByte byte) int {
	switch firstByte >> 6 {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 8
	}
}

// EncodedLen returns the number of bytes Encode will emit for v, the
// shortest length that can represent it.
func EncodedLen(v uint64) int {
	return quicvarint.Len(v)
}

// Encode appends the shortest valid encoding of v to buf and returns the
// extended slice. It panics if v exceeds Max, mirroring the invariant that
// callers only ever encode values already known to fit (quicvarint itself
// enforces this).
func Encode(buf []byte, v uint64) []byte {
	return quicvarint.Append(buf, v)
}

// FromUint32 constructs a VarInt value from a 32-bit integer. This is
// infallible: every uint32 fits in 62 bits.
func FromUint32(v uint32) uint64 {
	return uint64(v)
}

// FromUint64 validates that v fits in the 62-bit VarInt range.
func FromUint64(v uint64) (uint64, error) {
	if v > Max {
		return 0, ErrOverflow
	}
	return v, nil
}

// IsGrease reports whether v falls on a reserved HTTP/3 GREASE code point:
// v >= 0x21 and (v-0x21) mod 0x1f == 0. GREASE values are used by peers to
// exercise unknown-value tolerance in stream types, frame types and
// settings ids, and must be ignored by receivers rather than rejected.
func IsGrease(v uint64) bool {
	if v < 0x21 {
		return false
	}
	return (v-0x21)%0x1f == 0
}
