// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qpack

import (
	"bytes"
	"sort"
	"strings"
)

// Headers is an unordered name -> value mapping. Only static-table and
// literal entries are supported; decoding a dynamic-table reference is a
// protocol error.
type Headers map[string]string

// Get returns the value for name, if present.
func (h Headers) Get(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Set assigns value to name, overwriting any previous value.
func (h Headers) Set(name, value string) {
	h[name] = value
}

// Decode parses a QPACK-lite header block: the two zero required-insert-count
// / delta-base prefix bytes followed by a sequence of indexed or literal
// field lines. Any dynamic-table reference (prefix bits 10...... or a
// post-base form) is rejected with ErrDynamicEntry.
func Decode(data []byte) (Headers, error) {
	buf := bytes.NewReader(data)

	// Required insert count and sign/delta-base: always zero since we never
	// acknowledge the encoder's dynamic table.
	if _, _, err := decodePrefix(buf, 8); err != nil {
		return nil, err
	}
	if _, _, err := decodePrefix(buf, 7); err != nil {
		return nil, err
	}

	h := make(Headers)
	for buf.Len() > 0 {
		peek, err := buf.ReadByte()
		if err != nil {
			return nil, ErrUnexpectedEnd
		}
		if err := buf.UnreadByte(); err != nil {
			return nil, ErrUnexpectedEnd
		}

		var name, value string
		switch {
		case peek&0b1100_0000 == 0b1100_0000:
			name, value, err = decodeIndexed(buf)
		case peek&0b1100_0000 == 0b1000_0000:
			return nil, ErrDynamicEntry
		case peek&0b1101_0000 == 0b0101_0000:
			name, value, err = decodeLiteralValue(buf)
		case peek&0b1101_0000 == 0b0100_0000:
			return nil, ErrDynamicEntry
		case peek&0b1110_0000 == 0b0010_0000:
			name, value, err = decodeLiteral(buf)
		case peek&0b1111_0000 == 0b0001_0000:
			return nil, ErrDynamicEntry
		case peek&0b1111_0000 == 0b0000_0000:
			return nil, ErrDynamicEntry
		default:
			return nil, ErrUnknownEntry
		}
		if err != nil {
			return nil, err
		}
		h[name] = value
	}

	return h, nil
}

// decodeIndexed decodes an "indexed header field" referencing the static
// table: 1 1 + 6-bit prefix index.
//
//	0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	| 1 | 1 |      Index (6+)       |
//	+---+---+-----------------------+
func decodeIndexed(buf *bytes.Reader) (name, value string, err error) {
	_, index, err := decodePrefix(buf, 6)
	if err != nil {
		return "", "", err
	}
	name, value, ok := staticTableGet(index)
	if !ok {
		return "", "", ErrUnknownEntry
	}
	return name, value, nil
}

// decodeLiteralValue decodes a "literal header field with a static-table
// name reference": 0 1 N 1 + 4-bit name index, then the value string.
//
//	0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	| 0 | 1 | N | 1 |Name Index (4+)|
//	+---+---+---+---+---------------+
//	| H |     Value Length (7+)     |
//	+---+---------------------------+
//	|  Value String (Length bytes)  |
//	+-------------------------------+
func decodeLiteralValue(buf *bytes.Reader) (name, value string, err error) {
	_, index, err := decodePrefix(buf, 4)
	if err != nil {
		return "", "", err
	}
	name, _, ok := staticTableGet(index)
	if !ok {
		return "", "", ErrUnknownEntry
	}
	value, err = decodeString(buf, 8)
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// decodeLiteral decodes a "literal header field with literal name": 0 0 1 N H
// + 3-bit name length, the name string, then the value string.
//
//	0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	| 0 | 0 | 1 | N | H |NameLen(3+)|
//	+---+---+---+---+---+-----------+
//	|  Name String (Length bytes)   |
//	+---+---------------------------+
//	| H |     Value Length (7+)     |
//	+---+---------------------------+
//	|  Value String (Length bytes)  |
//	+-------------------------------+
func decodeLiteral(buf *bytes.Reader) (name, value string, err error) {
	// The first byte carries flags in its top 5 bits (001NH) and the name
	// length in the low 3 bits; decodeString(buf, 4) consumes that byte as a
	// 3-bit prefix integer (size-1 == 3).
	name, err = decodeString(buf, 4)
	if err != nil {
		return "", "", err
	}
	value, err = decodeString(buf, 8)
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// Encode writes h as a QPACK-lite header block. Pseudo-headers (names
// starting with ':') are emitted before regular headers, matching RFC 9114
// §4.1.2; within each group, encoding order is otherwise unspecified.
func Encode(h Headers) []byte {
	var buf bytes.Buffer

	// Required insert count / sign+delta-base: always zero.
	encodePrefix(&buf, 8, 0, 0)
	encodePrefix(&buf, 7, 0, 0)

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		iPseudo := strings.HasPrefix(names[i], ":")
		jPseudo := strings.HasPrefix(names[j], ":")
		if iPseudo != jPseudo {
			return iPseudo
		}
		return false
	})

	for _, name := range names {
		value := h[name]
		switch {
		case tryEncodeIndexed(&buf, name, value):
		case tryEncodeLiteralValue(&buf, name, value):
		default:
			encodeLiteral(&buf, name, value)
		}
	}

	return buf.Bytes()
}

func tryEncodeIndexed(buf *bytes.Buffer, name, value string) bool {
	index, ok := staticTableFind(name, value)
	if !ok {
		return false
	}
	encodePrefix(buf, 6, 0b11, index)
	return true
}

func tryEncodeLiteralValue(buf *bytes.Buffer, name, value string) bool {
	index, ok := staticTableFindName(name)
	if !ok {
		return false
	}
	encodePrefix(buf, 4, 0b0101, index)
	encodeString(buf, 8, value)
	return true
}

// encodeLiteral emits a literal header field with a literal name, first byte
// pattern "0 0 1 N H" followed by the 3-bit name length (see decodeLiteral).
func encodeLiteral(buf *bytes.Buffer, name, value string) {
	encodeStringWithFlags(buf, 4, 0b00100, name)
	encodeString(buf, 8, value)
}
