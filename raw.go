// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"context"
	"net/url"

	"github.com/quic-go/quic-go"

	"github.com/loopline-io/webtransport/h3"
	"github.com/loopline-io/webtransport/transport"
)

// RawSession wraps a bare QUIC connection as a WebTransport session without
// the HTTP/3 layer: no SETTINGS or CONNECT exchange, no per-stream header
// prefix and no per-datagram session-id prefix. Both endpoints must agree out
// of band (typically via ALPN) that the connection carries raw WebTransport.
// Error codes still map through the reserved HTTP/3 range so the two modes
// share one error space.
type RawSession struct {
	conn quic.Connection

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewRawSession wraps an established QUIC connection. The returned session is
// usable immediately; there is no handshake to wait for.
func NewRawSession(conn quic.Connection) *RawSession {
	ctx, cancel := context.WithCancelCause(context.Background())
	s := &RawSession{conn: conn, ctx: ctx, cancel: cancel}
	go func() {
		<-conn.Context().Done()
		s.cancel(convertQuicError(context.Cause(conn.Context())))
	}()
	return s
}

// AcceptUni waits for the next unidirectional stream opened by the peer.
func (s *RawSession) AcceptUni(ctx context.Context) (transport.RecvStream, error) {
	str, err := s.conn.AcceptUniStream(ctx)
	if err != nil {
		return nil, convertQuicError(err)
	}
	return newRecvStream(str), nil
}

// AcceptBi waits for the next bidirectional stream opened by the peer.
func (s *RawSession) AcceptBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	str, err := s.conn.AcceptStream(ctx)
	if err != nil {
		return nil, nil, convertQuicError(err)
	}
	return newSendStream(str), newRecvStream(str), nil
}

// OpenUni opens a new unidirectional stream.
func (s *RawSession) OpenUni(ctx context.Context) (transport.SendStream, error) {
	str, err := s.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, convertQuicError(err)
	}
	return newSendStream(str), nil
}

// OpenBi opens a new bidirectional stream.
func (s *RawSession) OpenBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	str, err := s.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, nil, convertQuicError(err)
	}
	return newSendStream(str), newRecvStream(str), nil
}

// SendDatagram sends b as a single unreliable datagram, unprefixed.
func (s *RawSession) SendDatagram(b []byte) error {
	return s.conn.SendDatagram(b)
}

// ReceiveDatagram waits for the next inbound datagram.
func (s *RawSession) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	b, err := s.conn.ReceiveDatagram(ctx)
	if err != nil {
		return nil, convertQuicError(err)
	}
	return b, nil
}

// MaxDatagramSize returns the largest datagram payload the session can
// safely send. With no session-id prefix the full carrier budget is
// available.
func (s *RawSession) MaxDatagramSize() int {
	return maxDatagramPayload
}

// Close terminates the session and the connection underneath it.
func (s *RawSession) Close(code transport.ErrorCode, reason string) error {
	s.cancel(&transport.ConnectionClosedError{Code: code, Reason: reason})
	return s.conn.CloseWithError(quic.ApplicationErrorCode(h3.ErrorToHTTP3(uint64(code))), reason)
}

// Closed returns a channel closed once the session has terminated.
func (s *RawSession) Closed() <-chan struct{} {
	return s.ctx.Done()
}

// Context returns a context bound to the session's lifetime.
func (s *RawSession) Context() context.Context {
	return s.ctx
}

// URL returns nil: a raw session is not established against an https URL.
func (s *RawSession) URL() *url.URL {
	return nil
}

var _ transport.Session = (*RawSession)(nil)
