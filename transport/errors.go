// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
)

// StreamResetError is returned from a read operation when the peer reset
// the stream's send side with RESET_STREAM.
type StreamResetError struct {
	Code ErrorCode
}

func (e *StreamResetError) Error() string {
	return fmt.Sprintf("transport: stream reset by peer, code %d", e.Code)
}

// StreamStoppedError is returned from a write operation when the peer asked
// to stop receiving with STOP_SENDING.
type StreamStoppedError struct {
	Code ErrorCode
}

func (e *StreamStoppedError) Error() string {
	return fmt.Sprintf("transport: stream stopped by peer, code %d", e.Code)
}

// ConnectionClosedError is returned from any session or stream operation
// once the session has closed, whether locally or by the peer.
type ConnectionClosedError struct {
	Code   ErrorCode
	Reason string
}

func (e *ConnectionClosedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transport: session closed, code %d", e.Code)
	}
	return fmt.Sprintf("transport: session closed, code %d: %s", e.Code, e.Reason)
}

// UnknownSessionError describes an inbound stream or datagram whose session
// identifier does not match any session the carrier knows about. The QUIC
// backend's connMux logs and drains such streams without returning it.
type UnknownSessionError struct {
	SessionID uint64
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("transport: unknown session id %d", e.SessionID)
}

// ErrClosed is a sentinel for an operation attempted on a stream or session
// that already observed a terminal state with no further carrier-specific
// detail to report. The QUIC backend does not return it, and the WebSocket
// backend reports that case with its own webtransportws.ErrClosed.
var ErrClosed = errors.New("transport: closed")
