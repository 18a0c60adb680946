// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Session module of webtransport package.

package webtransport

import (
	"context"
	"io"
	"math"
	"net/url"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/h3"
	"github.com/loopline-io/webtransport/transport"
	"github.com/loopline-io/webtransport/varint"
)

// Session is a WebTransport session established over a QUIC connection. It
// implements transport.Session. A Session value is a cheap handle: the
// CONNECT stream, the connection and the connMux it shares with sibling
// sessions all live for as long as any handle or the connMux's bookkeeping
// references them.
type Session struct {
	id     uint64
	conn   quic.Connection
	stream quic.Stream // the CONNECT bidirectional stream
	mux    *connMux
	url    *url.URL
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	uniAccept chan transport.RecvStream
	biAccept  chan bidiStream
}

type bidiStream struct {
	send transport.SendStream
	recv transport.RecvStream
}

func newSession(conn quic.Connection, stream quic.Stream, mux *connMux, u *url.URL, log zerolog.Logger) *Session {
	ctx, cancel := context.WithCancelCause(context.Background())
	s := &Session{
		id:        uint64(stream.StreamID()),
		conn:      conn,
		stream:    stream,
		mux:       mux,
		url:       u,
		log:       log.With().Uint64("session", uint64(stream.StreamID())).Logger(),
		ctx:       ctx,
		cancel:    cancel,
		uniAccept: make(chan transport.RecvStream, 8),
		biAccept:  make(chan bidiStream, 8),
	}
	go s.watchClose()
	return s
}

// watchClose reads capsules off the CONNECT stream until it sees a
// CLOSE_WEBTRANSPORT_SESSION capsule or the stream ends, publishing the
// resulting terminal error to the session's context.
func (s *Session) watchClose() {
	for {
		typ, payload, err := h3.ReadCapsule(s.stream)
		if err != nil {
			s.cancel(&transport.ConnectionClosedError{})
			return
		}
		if typ != h3.CloseWebtransportSessionType {
			continue
		}
		capsule, err := h3.DecodeCloseWebtransportSession(payload)
		if err != nil {
			s.cancel(&transport.ConnectionClosedError{})
			return
		}
		s.cancel(&transport.ConnectionClosedError{
			Code:   transport.ErrorCode(capsule.Code),
			Reason: capsule.Reason,
		})
		return
	}
}

// Context returns a context bound to the session's lifetime.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Closed returns a channel closed once the session has terminated.
func (s *Session) Closed() <-chan struct{} {
	return s.ctx.Done()
}

// URL returns the address this session was established against.
func (s *Session) URL() *url.URL {
	return s.url
}

// AcceptUni waits for the next unidirectional stream opened by the peer.
func (s *Session) AcceptUni(ctx context.Context) (transport.RecvStream, error) {
	select {
	case rs := <-s.uniAccept:
		return rs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	}
}

// AcceptBi waits for the next bidirectional stream opened by the peer.
func (s *Session) AcceptBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	select {
	case bs := <-s.biAccept:
		return bs.send, bs.recv, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, nil, context.Cause(s.ctx)
	}
}

// OpenUni opens a new unidirectional stream.
func (s *Session) OpenUni(ctx context.Context) (transport.SendStream, error) {
	select {
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	default:
	}
	str, err := s.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, convertQuicError(err)
	}
	setStreamPriority(str, math.MaxInt32)
	hdr := h3.StreamHeader{Type: h3.STREAM_WEBTRANSPORT_UNI_STREAM, ID: s.id}
	if _, err := hdr.Write(str); err != nil {
		str.CancelWrite(0)
		return nil, convertQuicError(err)
	}
	setStreamPriority(str, 0)
	return newSendStream(str), nil
}

// OpenBi opens a new bidirectional stream.
func (s *Session) OpenBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	select {
	case <-s.ctx.Done():
		return nil, nil, context.Cause(s.ctx)
	default:
	}
	str, err := s.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, nil, convertQuicError(err)
	}
	setStreamPriority(str, math.MaxInt32)
	f := h3.Frame{Type: h3.FRAME_WEBTRANSPORT_STREAM, SessionID: s.id}
	if _, err := f.Write(str); err != nil {
		str.CancelWrite(0)
		return nil, nil, convertQuicError(err)
	}
	setStreamPriority(str, 0)
	return newSendStream(str), newRecvStream(str), nil
}

// setStreamPriority raises or lowers str's send priority if the carrier
// exposes it. The header prefix on a freshly opened stream is written at
// maximum priority so it reaches the peer ahead of any data already queued
// on lower-priority streams, then dropped back to the default once written.
func setStreamPriority(str any, priority int) {
	if p, ok := str.(interface{ SetPriority(int) }); ok {
		p.SetPriority(priority)
	}
}

// Close terminates the session and the carrier underneath it, mapping code
// into the reserved HTTP/3 error range so the peer can recover the
// application code from the resulting CONNECTION_CLOSE.
func (s *Session) Close(code transport.ErrorCode, reason string) error {
	s.mux.unregister(s.id)
	s.cancel(&transport.ConnectionClosedError{Code: code, Reason: reason})
	return s.conn.CloseWithError(quic.ApplicationErrorCode(h3.ErrorToHTTP3(uint64(code))), reason)
}

// CloseSession terminates only this session, sending a
// CLOSE_WEBTRANSPORT_SESSION capsule on the CONNECT stream and leaving the
// QUIC connection (and any sibling sessions it carries) intact.
func (s *Session) CloseSession(code transport.ErrorCode, reason string) error {
	capsule := h3.CloseWebtransportSession{Code: uint32(code), Reason: reason}
	_, err := s.stream.Write(capsule.Encode())
	s.mux.unregister(s.id)
	s.cancel(&transport.ConnectionClosedError{Code: code, Reason: reason})
	s.stream.Close()
	return err
}

// SendDatagram sends b as a single unreliable datagram, prefixed with the
// session id so the peer can demultiplex it.
func (s *Session) SendDatagram(b []byte) error {
	select {
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	default:
	}
	buf := varint.Encode(make([]byte, 0, varint.EncodedLen(s.id)+len(b)), s.id)
	buf = append(buf, b...)
	return s.conn.SendDatagram(buf)
}

// ReceiveDatagram waits for the next inbound datagram addressed to this
// session. Datagrams for other sessions sharing the connection are
// dispatched to them by the connMux's datagram loop.
func (s *Session) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	select {
	case b := <-s.mux.datagramFor(s.id):
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	}
}

// maxDatagramPayload is the largest datagram frame payload every QUIC path
// must accept: the 1200-byte minimum datagram size minus frame overhead.
// quic-go only reports the real negotiated limit by failing a SendDatagram
// with DatagramTooLargeError, so the session advertises this floor instead.
const maxDatagramPayload = 1200 - 3

// MaxDatagramSize returns the largest datagram payload the session can
// safely send: the carrier's guaranteed MTU minus the varint-encoded
// session-id prefix every outbound datagram is stamped with.
func (s *Session) MaxDatagramSize() int {
	return maxDatagramPayload - varint.EncodedLen(s.id)
}

var _ transport.Session = (*Session)(nil)

// drain discards all remaining bytes on an unrecognized or rejected stream
// rather than leaving it to time out, matching the GREASE-tolerance policy
// applied at stream acceptance.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}
