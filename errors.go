// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"errors"
	"io"

	"github.com/quic-go/quic-go"

	"github.com/loopline-io/webtransport/h3"
	"github.com/loopline-io/webtransport/transport"
)

// errRequestAlreadyResolved is returned when a Request's Ok or Close is
// called more than once.
var errRequestAlreadyResolved = errors.New("webtransport: request already resolved")

// convertQuicError translates a quic-go connection-level error into the
// shared transport error taxonomy, so application code written against
// transport.Session never needs to import quic-go directly. Application
// error codes are recovered through the reserved HTTP/3 range mapping.
func convertQuicError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return err
	}

	var appErr *quic.ApplicationError
	if errors.As(err, &appErr) {
		code, cerr := h3.ErrorFromHTTP3(uint64(appErr.ErrorCode))
		if cerr != nil {
			code = 0
		}
		return &transport.ConnectionClosedError{Code: transport.ErrorCode(code), Reason: appErr.ErrorMessage}
	}

	return err
}

// convertReadError translates an error from a QUIC receive-stream operation.
// A stream-level error on the read side means the peer reset the stream.
func convertReadError(err error) error {
	var streamErr *quic.StreamError
	if errors.As(err, &streamErr) {
		code, cerr := h3.ErrorFromHTTP3(uint64(streamErr.ErrorCode))
		if cerr != nil {
			return err
		}
		return &transport.StreamResetError{Code: transport.ErrorCode(code)}
	}
	return convertQuicError(err)
}

// convertWriteError translates an error from a QUIC send-stream operation.
// A stream-level error on the write side means the peer stopped the stream.
func convertWriteError(err error) error {
	var streamErr *quic.StreamError
	if errors.As(err, &streamErr) {
		code, cerr := h3.ErrorFromHTTP3(uint64(streamErr.ErrorCode))
		if cerr != nil {
			return err
		}
		return &transport.StreamStoppedError{Code: transport.ErrorCode(code)}
	}
	return convertQuicError(err)
}
