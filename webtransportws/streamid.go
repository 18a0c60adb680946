// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

// StreamDir is the direction of a stream: bidirectional or unidirectional.
type StreamDir int

const (
	DirBi StreamDir = iota
	DirUni
)

// StreamID is a QUIC-style stream identifier: a monotonically increasing
// per-(direction, initiator) counter with the direction and initiator role
// packed into the low two bits, the same scheme RFC 9000 §2.1 uses.
type StreamID uint64

// NewStreamID builds the StreamID for the n'th stream a peer opens in the
// given direction.
func NewStreamID(n uint64, dir StreamDir, isServer bool) StreamID {
	id := n << 2
	if dir == DirUni {
		id |= 0x02
	}
	if isServer {
		id |= 0x01
	}
	return StreamID(id)
}

// Dir reports the stream's direction.
func (id StreamID) Dir() StreamDir {
	if id&0x02 != 0 {
		return DirUni
	}
	return DirBi
}

// ServerInitiated reports whether the endpoint that first opened the stream
// was acting as the server.
func (id StreamID) ServerInitiated() bool {
	return id&0x01 != 0
}

// CanRecv reports whether an endpoint acting in the given role may receive
// on this stream.
func (id StreamID) CanRecv(isServer bool) bool {
	if id.Dir() == DirUni {
		return id.ServerInitiated() != isServer
	}
	return true
}

// CanSend reports whether an endpoint acting in the given role may send on
// this stream.
func (id StreamID) CanSend(isServer bool) bool {
	if id.Dir() == DirUni {
		return id.ServerInitiated() == isServer
	}
	return true
}
