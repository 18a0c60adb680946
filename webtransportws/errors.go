// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a stream operation once the stream has ended
// with no FIN, reset, stop or session error left to report. Operations
// after the session has terminated return the session's
// *ConnectionClosedError instead.
var ErrClosed = errors.New("webtransportws: session closed")

// ErrProtocolViolation is the error the WebSocket pong handler reports for
// an unsolicited pong; the read loop then ends the session with a
// *ConnectionClosedError carrying its message as Reason. A frame naming a
// stream in a direction the peer may not use also ends the session, with a
// *ConnectionClosedError whose Reason names the violation, not with this
// error.
var ErrProtocolViolation = errors.New("webtransportws: protocol violation")

// ErrSubprotocolRequired's message is the body of the HTTP 400 response
// Server.ServeHTTP sends when the client's handshake did not offer the
// "web-transport" WebSocket subprotocol.
var ErrSubprotocolRequired = errors.New("webtransportws: 'web-transport' subprotocol required")

// ErrDatagramsUnsupported is returned by Session.SendDatagram and
// Session.ReceiveDatagram: the WebSocket backend has no unreliable delivery
// mode to carry them over.
var ErrDatagramsUnsupported = errors.New("webtransportws: datagrams are not supported over the WebSocket backend")

// StreamResetError reports that the peer reset the send side of a stream
// the local side was reading from.
type StreamResetError struct{ Code uint64 }

func (e *StreamResetError) Error() string {
	return fmt.Sprintf("webtransportws: stream reset, code %#x", e.Code)
}

// StreamStoppedError reports that the peer asked the local side to stop
// sending on a stream.
type StreamStoppedError struct{ Code uint64 }

func (e *StreamStoppedError) Error() string {
	return fmt.Sprintf("webtransportws: stream stopped, code %#x", e.Code)
}

// ConnectionClosedError reports that the session was closed, locally or by
// the peer, with an application code and reason.
type ConnectionClosedError struct {
	Code   uint64
	Reason string
}

func (e *ConnectionClosedError) Error() string {
	return fmt.Sprintf("webtransportws: connection closed, code %#x: %s", e.Code, e.Reason)
}
