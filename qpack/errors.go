// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qpack implements a restricted QPACK header codec: the static table
// and literal entries only, with no dynamic-table acknowledgments. Since the
// decoder never acknowledges the peer's encoder stream, the dynamic table
// never comes into existence and any reference into it can be rejected
// outright.
package qpack

import "errors"

var (
	// ErrUnexpectedEnd is returned when buf runs out of bytes mid-field.
	ErrUnexpectedEnd = errors.New("qpack: unexpected end of input")
	// ErrBoundsExceeded is returned when a prefix-integer continuation
	// sequence grows implausibly large, guarding against malicious input.
	ErrBoundsExceeded = errors.New("qpack: varint bounds exceeded")
	// ErrDynamicEntry is returned for any reference into the QPACK dynamic
	// table, which this coder does not implement.
	ErrDynamicEntry = errors.New("qpack: dynamic table references not supported")
	// ErrUnknownEntry is returned for a static-table index with no entry.
	ErrUnknownEntry = errors.New("qpack: unknown static table entry")
	// ErrHuffman is returned when a Huffman-coded string fails to decode.
	ErrHuffman = errors.New("qpack: huffman decoding error")
)
