// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import "errors"

// The WebTransport application error-code space is mapped into a reserved
// range of the HTTP/3 error-code space so that QUIC (which only carries a
// single 62-bit error code per stream/connection reset) can still surface
// WebTransport-level application codes. The range skips grease codepoints,
// so the mapping is not a plain offset.
const (
	webtransportErrorFirst uint64 = 0x52e4a40fa8db
	webtransportErrorLast  uint64 = 0x52e5ac983162
)

// ErrNotWebtransportError is returned by ErrorFromHTTP3 when the wire error
// code does not fall within the reserved WebTransport range.
var ErrNotWebtransportError = errors.New("h3: error code is not a WebTransport application error")

// ErrorToHTTP3 maps a WebTransport application error code onto the wire
// error code carried by the underlying HTTP/3/QUIC reset.
func ErrorToHTTP3(code uint64) uint64 {
	return webtransportErrorFirst + code + code/0x1e
}

// ErrorFromHTTP3 is the inverse of ErrorToHTTP3. It rejects wire codes that
// fall outside the reserved range, and ones landing exactly on a grease
// codepoint (which a well-behaved mapping never produces).
func ErrorFromHTTP3(wire uint64) (code uint64, err error) {
	if wire < webtransportErrorFirst || wire > webtransportErrorLast {
		return 0, ErrNotWebtransportError
	}
	if IsGreaseValue(wire) {
		return 0, ErrNotWebtransportError
	}
	shifted := wire - webtransportErrorFirst
	return shifted - shifted/0x1f, nil
}
