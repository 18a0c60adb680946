// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// connMux demultiplexes the streams and datagrams of a single QUIC
// connection across the (possibly several) WebTransport sessions it
// carries, tolerating and discarding unrelated HTTP/3 streams (control,
// QPACK encoder/decoder, GREASE) along the way.

package webtransport

import (
	"context"
	"errors"
	"sync"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/h3"
	"github.com/loopline-io/webtransport/varint"
)

type connMux struct {
	conn quic.Connection
	log  zerolog.Logger

	// onConnect is invoked for every new CONNECT request seen on a freshly
	// accepted bidirectional stream. A nil value rejects every CONNECT
	// (the Dialer side never expects inbound sessions).
	onConnect func(*Request)

	mu          sync.Mutex
	sessions    map[uint64]*Session
	datagramChs map[uint64]chan []byte
}

func newConnMux(conn quic.Connection, log zerolog.Logger) *connMux {
	return &connMux{
		conn:        conn,
		log:         log,
		sessions:    make(map[uint64]*Session),
		datagramChs: make(map[uint64]chan []byte),
	}
}

func (m *connMux) register(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.id] = sess
}

func (m *connMux) unregister(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.datagramChs, id)
}

func (m *connMux) lookup(id uint64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *connMux) datagramFor(id uint64) chan []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.datagramChs[id]
	if !ok {
		ch = make(chan []byte, 8)
		m.datagramChs[id] = ch
	}
	return ch
}

// run starts the connection-wide accept and datagram-dispatch loops. It
// returns immediately; the loops run until ctx is cancelled or the
// connection closes.
func (m *connMux) run(ctx context.Context) {
	go m.runUni(ctx)
	go m.runBi(ctx)
	go m.runDatagrams(ctx)
	go m.watchConn()
}

// watchConn propagates the connection's terminal error to every session the
// connection carries, so in-flight accepts and opens observe the close
// instead of blocking forever.
func (m *connMux) watchConn() {
	<-m.conn.Context().Done()
	err := convertQuicError(context.Cause(m.conn.Context()))

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.cancel(err)
	}
}

func (m *connMux) runUni(ctx context.Context) {
	for {
		str, err := m.conn.AcceptUniStream(ctx)
		if err != nil {
			return
		}
		go m.dispatchUni(str)
	}
}

func (m *connMux) dispatchUni(str quic.ReceiveStream) {
	hdr, grease, err := h3.ReadStreamHeader(str)
	if err != nil {
		if errors.Is(err, h3.ErrUnknownStreamType) {
			drain(str)
		}
		return
	}
	if grease || hdr.Type != h3.STREAM_WEBTRANSPORT_UNI_STREAM {
		m.log.Debug().Uint64("type", hdr.Type).Msg("ignoring non-webtransport unidirectional stream")
		drain(str)
		return
	}

	sess, ok := m.lookup(hdr.ID)
	if !ok {
		m.log.Debug().Uint64("session", hdr.ID).Msg("uni stream for unknown session")
		drain(str)
		return
	}

	rs := newRecvStream(str)
	select {
	case sess.uniAccept <- rs:
	case <-sess.ctx.Done():
	}
}

func (m *connMux) runBi(ctx context.Context) {
	for {
		str, err := m.conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go m.dispatchBi(str)
	}
}

func (m *connMux) dispatchBi(str quic.Stream) {
	f, err := h3.ReadFrame(str)
	if err != nil {
		return
	}

	switch f.Type {
	case h3.FRAME_HEADERS:
		m.handleConnect(str, f)
	case h3.FRAME_WEBTRANSPORT_STREAM:
		sess, ok := m.lookup(f.SessionID)
		if !ok {
			m.log.Debug().Uint64("session", f.SessionID).Msg("bi stream for unknown session")
			drain(str)
			return
		}
		bs := bidiStream{send: newSendStream(str), recv: newRecvStream(str)}
		select {
		case sess.biAccept <- bs:
		case <-sess.ctx.Done():
		}
	default:
		m.log.Debug().Uint64("type", f.Type).Msg("ignoring unexpected frame on new bidirectional stream")
		drain(str)
	}
}

func (m *connMux) handleConnect(str quic.Stream, f h3.Frame) {
	if m.onConnect == nil {
		str.Close()
		return
	}

	connect, headers, err := h3.DecodeConnectRequestFull(f.Data)
	if err != nil {
		m.log.Debug().Err(err).Msg("invalid CONNECT request")
		str.Close()
		return
	}
	origin, _ := headers.Get("origin")

	req := &Request{
		connect: connect,
		header:  originHeader(origin),
		stream:  str,
		conn:    m.conn,
		mux:     m,
		log:     m.log,
	}
	m.onConnect(req)
}

func (m *connMux) runDatagrams(ctx context.Context) {
	for {
		b, err := m.conn.ReceiveDatagram(ctx)
		if err != nil {
			return
		}
		sessionID, n, err := varint.Decode(b)
		if err != nil {
			continue
		}
		payload := b[n:]

		ch := m.datagramFor(sessionID)
		select {
		case ch <- payload:
		default:
			m.log.Debug().Uint64("session", sessionID).Msg("dropping datagram, receiver not keeping up")
		}
	}
}
