// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport defines the carrier-agnostic WebTransport session and
// stream contract: the single polymorphism boundary a QUIC-backed session
// (package webtransport) and a WebSocket-backed session (package
// webtransportws) both satisfy.
package transport

import (
	"context"
	"net/url"
)

// ErrorCode is an application-level WebTransport error code, carried across
// the wire in a carrier-specific way (mapped into the HTTP/3 error space for
// QUIC, sent as-is in a close frame for WebSocket).
type ErrorCode uint64

// Session is a WebTransport session: a bundle of ordered reliable streams
// plus best-effort datagrams, multiplexed over a single underlying
// connection (a QUIC connection, or a single WebSocket connection).
type Session interface {
	// AcceptUni waits for and returns the next stream opened by the peer.
	AcceptUni(ctx context.Context) (RecvStream, error)
	// AcceptBi waits for and returns the next bidirectional stream opened by
	// the peer.
	AcceptBi(ctx context.Context) (SendStream, RecvStream, error)
	// OpenUni opens a new unidirectional stream.
	OpenUni(ctx context.Context) (SendStream, error)
	// OpenBi opens a new bidirectional stream.
	OpenBi(ctx context.Context) (SendStream, RecvStream, error)

	// SendDatagram sends b as a single unreliable datagram. It returns an
	// error if the carrier cannot send b, such as when b is too large for it
	// or the carrier has no datagram support.
	SendDatagram(b []byte) error
	// ReceiveDatagram waits for and returns the next inbound datagram.
	ReceiveDatagram(ctx context.Context) ([]byte, error)
	// MaxDatagramSize returns the largest datagram payload the session can
	// currently send.
	MaxDatagramSize() int

	// Close terminates the session, informing the peer of code and reason.
	Close(code ErrorCode, reason string) error
	// Closed returns a channel closed once the session has terminated,
	// whether locally or by the peer.
	Closed() <-chan struct{}
	// Context returns a context bound to the session's lifetime; it is
	// cancelled when the session closes, with context.Cause(Context())
	// describing why.
	Context() context.Context
	// URL returns the address this session was established against.
	URL() *url.URL
}

// SendStream is the write half of a WebTransport stream.
type SendStream interface {
	// Write writes p as stream data, blocking until accepted by the
	// underlying carrier's flow control.
	Write(p []byte) (int, error)
	// WriteChunk is Write for a caller-owned buffer the stream is free to
	// retain without copying until the underlying write completes.
	WriteChunk(p []byte) (int, error)
	// SetPriority adjusts the relative send priority of this stream; higher
	// values are scheduled first.
	SetPriority(priority int)
	// Reset abruptly terminates the stream with code, discarding any
	// buffered unsent data.
	Reset(code ErrorCode)
	// Close finishes the stream, signaling FIN to the peer once all
	// buffered data has been sent.
	Close() error
	// Closed returns a channel closed once the stream has reached a
	// terminal state (finished, reset, or stopped by the peer).
	Closed() <-chan struct{}
}

// RecvStream is the read half of a WebTransport stream.
type RecvStream interface {
	// Read reads stream data into p, returning io.EOF once the peer has
	// signaled FIN and all data has been delivered.
	Read(p []byte) (int, error)
	// ReadChunk returns up to max bytes without copying into a
	// caller-provided buffer.
	ReadChunk(max int) ([]byte, error)
	// Stop abandons the read side, asking the peer to stop sending with
	// code.
	Stop(code ErrorCode)
	// Closed returns a channel closed once the stream has reached a
	// terminal state (FIN delivered, reset by the peer, or stopped
	// locally).
	Closed() <-chan struct{}
}
