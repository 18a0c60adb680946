// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qpack

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// maxPower bounds the continuation-byte loop in decodePrefix so a malicious
// peer cannot force an unbounded shift; ten 7-bit continuation groups cover
// any 64-bit value.
const maxPower = 10 * 7

// decodePrefix reads an RFC 7541 §5.1 prefix integer occupying the low `size`
// bits of the first byte, with the remaining high bits returned as flags.
func decodePrefix(buf *bytes.Reader, size uint8) (flags uint8, value int, err error) {
	first, err := buf.ReadByte()
	if err != nil {
		return 0, 0, ErrUnexpectedEnd
	}

	flags = first >> size
	mask := byte(0xFF >> (8 - size))
	first &= mask

	if first < mask {
		return flags, int(first), nil
	}

	value = int(mask)
	power := 0
	for {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, 0, ErrUnexpectedEnd
		}
		value += int(b&127) << power
		power += 7

		if b&128 == 0 {
			break
		}
		if power >= maxPower {
			return 0, 0, ErrBoundsExceeded
		}
	}

	return flags, value, nil
}

// encodePrefix writes value as an RFC 7541 §5.1 prefix integer in the low
// `size` bits, with `flags` occupying the remaining high bits of the first
// byte.
func encodePrefix(buf *bytes.Buffer, size uint8, flags uint8, value int) {
	mask := byte(0xFF >> (8 - size))
	flagBits := flags << size

	if value < int(mask) {
		buf.WriteByte(flagBits | byte(value))
		return
	}

	buf.WriteByte(flagBits | mask)
	remaining := value - int(mask)
	for remaining >= 128 {
		buf.WriteByte(byte(remaining%128) + 128)
		remaining /= 128
	}
	buf.WriteByte(byte(remaining))
}

// decodeString reads an RFC 7541 §5.2 string literal: a 1-bit Huffman flag
// packed into an (size-1)-bit prefix-integer length, followed by that many
// bytes. Huffman decoding reuses golang.org/x/net/http2/hpack's static
// Huffman table, the same code QPACK inherits verbatim from HPACK.
func decodeString(buf *bytes.Reader, size uint8) (string, error) {
	flags, length, err := decodePrefix(buf, size-1)
	if err != nil {
		return "", err
	}
	if buf.Len() < length {
		return "", ErrUnexpectedEnd
	}

	raw := make([]byte, length)
	if _, err := buf.Read(raw); err != nil {
		return "", ErrUnexpectedEnd
	}

	if flags&1 == 0 {
		return string(raw), nil
	}

	var out bytes.Buffer
	if _, err := hpack.HuffmanDecode(&out, raw); err != nil {
		return "", ErrHuffman
	}
	return out.String(), nil
}

// encodeString writes s as a raw (non-Huffman) string literal. This encoder
// never Huffman-encodes outgoing values, though decode must accept them.
func encodeString(buf *bytes.Buffer, size uint8, s string) {
	encodeStringWithFlags(buf, size, 0, s)
}

// encodeStringWithFlags is encodeString with additional constant bits packed
// above the Huffman bit, used for field lines whose first byte carries a
// fixed pattern (e.g. the "001NH" literal-name prefix) alongside the string
// length.
func encodeStringWithFlags(buf *bytes.Buffer, size uint8, topFlags uint8, s string) {
	encodePrefix(buf, size-1, topFlags, len(s))
	buf.WriteString(s)
}
