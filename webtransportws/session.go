// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"context"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/transport"
)

// outboundBacklog bounds the normal-priority outbound mailbox. A small
// backlog is deliberate: producers writing STREAM data block when the
// WebSocket is slow, which is the only back-pressure this carrier has.
const outboundBacklog = 8

// sendState is the muxer's bookkeeping for a stream the local side may
// write to: the channel an inbound STOP_SENDING notification is delivered
// on.
type sendState struct {
	stopped chan uint64
}

// recvState is the muxer's bookkeeping for a stream the local side may read
// from. data is unbounded so the muxer never blocks fanning inbound STREAM
// frames out to handles.
type recvState struct {
	data  *mailbox[streamFrame]
	reset chan uint64
}

type acceptedBi struct {
	send *sendStream
	recv *recvStream
}

// createReq asks the muxer to allocate a locally initiated stream. The reply
// channel has capacity 1 so the muxer never blocks answering.
type createReq struct {
	reply chan createdStream
}

type createdStream struct {
	send *sendStream
	recv *recvStream
}

// closeSignal tells the muxer to terminate; the matching APPLICATION_CLOSE
// frame is already queued on the priority mailbox when the signal is raised.
type closeSignal struct {
	code   uint64
	reason string
}

// Session emulates a WebTransport session over a single WebSocket
// connection, demultiplexing QUIC-style STREAM/RESET_STREAM/STOP_SENDING
// frames carried one per binary WebSocket message.
//
// A single muxer goroutine (run) owns the WebSocket's write side and all
// mutable stream state; everything else talks to it through mailboxes. The
// muxer drains, in biased order: inbound frames, locally requested streams,
// the unbounded priority mailbox (RESET_STREAM, STOP_SENDING,
// APPLICATION_CLOSE), and only then the bounded normal mailbox carrying
// STREAM payload. Control frames therefore preempt queued payload, and a
// slow peer back-pressures writers through the bounded mailbox alone.
type Session struct {
	conn     *websocket.Conn
	isServer bool
	u        *url.URL
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	inbound   chan []byte      // read loop -> muxer
	createUni chan createReq   // handles -> muxer
	createBi  chan createReq   // handles -> muxer
	priority  *mailbox[[]byte] // control frames, unbounded
	outbound  chan []byte      // STREAM data, bounded
	closing   chan closeSignal // external close -> muxer

	acceptUni chan *recvStream
	acceptBi  chan acceptedBi

	// Owned exclusively by the muxer goroutine; no lock guards them.
	sendStates map[StreamID]*sendState
	recvStates map[StreamID]*recvState
	doneRecv   map[StreamID]struct{}
	nextUniID  uint64
	nextBiID   uint64
}

func newSession(conn *websocket.Conn, isServer bool, u *url.URL, log zerolog.Logger) *Session {
	ctx, cancel := context.WithCancelCause(context.Background())
	s := &Session{
		conn:       conn,
		isServer:   isServer,
		u:          u,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		inbound:    make(chan []byte, 8),
		createUni:  make(chan createReq),
		createBi:   make(chan createReq),
		priority:   newMailbox[[]byte](ctx.Done()),
		outbound:   make(chan []byte, outboundBacklog),
		closing:    make(chan closeSignal, 1),
		acceptUni:  make(chan *recvStream, 8),
		acceptBi:   make(chan acceptedBi, 8),
		sendStates: make(map[StreamID]*sendState),
		recvStates: make(map[StreamID]*recvState),
		doneRecv:   make(map[StreamID]struct{}),
	}
	// Pings are answered by gorilla's default handler; an unsolicited pong
	// is a protocol error on this subprotocol.
	conn.SetPongHandler(func(string) error { return ErrProtocolViolation })
	go s.readLoop()
	go s.run()
	return s
}

// readLoop is the only reader of the WebSocket. It forwards binary messages
// to the muxer and publishes a terminal error on anything else.
func (s *Session) readLoop() {
	for {
		typ, data, err := s.conn.ReadMessage()
		if err != nil {
			s.cancel(&ConnectionClosedError{Reason: err.Error()})
			return
		}
		if typ != websocket.BinaryMessage {
			s.cancel(&ConnectionClosedError{Reason: "unexpected non-binary message"})
			return
		}
		select {
		case s.inbound <- data:
		case <-s.ctx.Done():
			return
		}
	}
}

// run is the muxer: the single goroutine that owns the WebSocket's write
// side and the stream maps. Each iteration sweeps the mailboxes in biased
// order before blocking, so the priority mailbox always drains fully before
// any STREAM payload moves.
func (s *Session) run() {
	defer s.conn.Close()
	for {
		select {
		case data := <-s.inbound:
			if !s.handleInbound(data) {
				return
			}
			continue
		default:
		}
		select {
		case req := <-s.createUni:
			s.handleCreate(DirUni, req)
			continue
		case req := <-s.createBi:
			s.handleCreate(DirBi, req)
			continue
		default:
		}
		select {
		case b := <-s.priority.recv():
			if !s.write(b) {
				return
			}
			continue
		default:
		}

		select {
		case data := <-s.inbound:
			if !s.handleInbound(data) {
				return
			}
		case req := <-s.createUni:
			s.handleCreate(DirUni, req)
		case req := <-s.createBi:
			s.handleCreate(DirBi, req)
		case b := <-s.priority.recv():
			if !s.write(b) {
				return
			}
		case b := <-s.outbound:
			if !s.write(b) {
				return
			}
		case sig := <-s.closing:
			s.terminate(sig)
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) write(b []byte) bool {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		s.cancel(&ConnectionClosedError{Reason: err.Error()})
		return false
	}
	return true
}

// terminate flushes control frames until the APPLICATION_CLOSE that
// triggered the signal has gone out, then publishes the terminal error.
func (s *Session) terminate(sig closeSignal) {
	for {
		b, ok := <-s.priority.recv()
		if !ok || !s.write(b) {
			break
		}
		if len(b) > 0 && b[0] == frameTypeApplicationClose {
			break
		}
	}
	s.cancel(&ConnectionClosedError{Code: sig.code, Reason: sig.reason})
}

// handleInbound applies a decoded frame to session state. It returns false
// if the session was torn down as a result (a protocol violation or an
// explicit peer close) and the muxer must stop.
func (s *Session) handleInbound(data []byte) bool {
	f, err := decodeFrame(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("unparseable frame")
		s.cancel(&ConnectionClosedError{Reason: err.Error()})
		return false
	}

	switch {
	case f.typ == frameTypePadding || f.typ == frameTypePing:
		return true

	case f.typ == frameTypeResetStream:
		return s.handleReset(f.reset)

	case f.typ == frameTypeStopSending:
		if !f.stop.id.CanSend(s.isServer) {
			s.cancel(&ConnectionClosedError{Reason: "stop-sending on a recv-only stream"})
			return false
		}
		if st, ok := s.sendStates[f.stop.id]; ok {
			select {
			case st.stopped <- f.stop.code:
			default:
			}
		}
		return true

	case f.typ >= frameTypeStream && f.typ <= frameTypeStream|0x07:
		return s.dispatchStream(f.stream)

	case f.typ == frameTypeApplicationClose:
		s.cancel(&ConnectionClosedError{Code: f.close.code, Reason: f.close.reason})
		return false

	default:
		return true
	}
}

func (s *Session) handleReset(f resetStreamFrame) bool {
	if !f.id.CanRecv(s.isServer) {
		s.cancel(&ConnectionClosedError{Reason: "reset of a send-only stream"})
		return false
	}
	st, ok := s.recvStates[f.id]
	if !ok {
		if _, done := s.doneRecv[f.id]; done || s.isServer == f.id.ServerInitiated() {
			return true
		}
		// The reset preempted the stream's payload; the handle is born
		// already reset.
		if st = s.acceptPeerStream(f.id); st == nil {
			return false
		}
	}
	delete(s.recvStates, f.id)
	s.doneRecv[f.id] = struct{}{}
	select {
	case st.reset <- f.code:
	default:
	}
	st.data.close()
	return true
}

func (s *Session) dispatchStream(sf streamFrame) bool {
	if !sf.id.CanRecv(s.isServer) {
		s.cancel(&ConnectionClosedError{Reason: "data on a send-only stream"})
		return false
	}
	st, ok := s.recvStates[sf.id]
	if !ok {
		if _, done := s.doneRecv[sf.id]; done || s.isServer == sf.id.ServerInitiated() {
			// Stream we already finished and forgot; ignore late data.
			return true
		}
		if st = s.acceptPeerStream(sf.id); st == nil {
			return false
		}
	}
	st.data.send(sf)
	if sf.fin {
		delete(s.recvStates, sf.id)
		s.doneRecv[sf.id] = struct{}{}
		st.data.close()
	}
	return true
}

// acceptPeerStream synthesizes receive state and application handles for a
// stream the peer just opened and delivers them to the matching accept
// mailbox. It returns nil if the session closed before the handle was
// accepted.
func (s *Session) acceptPeerStream(id StreamID) *recvState {
	st := &recvState{data: newMailbox[streamFrame](s.ctx.Done()), reset: make(chan uint64, 1)}
	s.recvStates[id] = st
	rs := newRecvStream(s, id, st)

	switch id.Dir() {
	case DirUni:
		select {
		case s.acceptUni <- rs:
		case <-s.ctx.Done():
			return nil
		}
	case DirBi:
		sendSt := &sendState{stopped: make(chan uint64, 1)}
		s.sendStates[id] = sendSt
		ss := newSendStream(s, id, sendSt)
		select {
		case s.acceptBi <- acceptedBi{send: ss, recv: rs}:
		case <-s.ctx.Done():
			return nil
		}
	}
	return st
}

// handleCreate allocates the next stream id in dir, inserts the backend
// state and hands the caller its handles.
func (s *Session) handleCreate(dir StreamDir, req createReq) {
	switch dir {
	case DirUni:
		id := NewStreamID(s.nextUniID, DirUni, s.isServer)
		s.nextUniID++
		st := &sendState{stopped: make(chan uint64, 1)}
		s.sendStates[id] = st
		req.reply <- createdStream{send: newSendStream(s, id, st)}
	case DirBi:
		id := NewStreamID(s.nextBiID, DirBi, s.isServer)
		s.nextBiID++
		sendSt := &sendState{stopped: make(chan uint64, 1)}
		recvSt := &recvState{data: newMailbox[streamFrame](s.ctx.Done()), reset: make(chan uint64, 1)}
		s.sendStates[id] = sendSt
		s.recvStates[id] = recvSt
		req.reply <- createdStream{
			send: newSendStream(s, id, sendSt),
			recv: newRecvStream(s, id, recvSt),
		}
	}
}

// AcceptUni waits for the next unidirectional stream opened by the peer.
func (s *Session) AcceptUni(ctx context.Context) (transport.RecvStream, error) {
	select {
	case rs := <-s.acceptUni:
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
	case bs := <-s.acceptBi:
		return bs.send, bs.recv, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, nil, context.Cause(s.ctx)
	}
}

// OpenUni opens a new unidirectional stream.
func (s *Session) OpenUni(ctx context.Context) (transport.SendStream, error) {
	req := createReq{reply: make(chan createdStream, 1)}
	select {
	case s.createUni <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	}
	select {
	case cs := <-req.reply:
		return cs.send, nil
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	}
}

// OpenBi opens a new bidirectional stream.
func (s *Session) OpenBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	req := createReq{reply: make(chan createdStream, 1)}
	select {
	case s.createBi <- req:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, nil, context.Cause(s.ctx)
	}
	select {
	case cs := <-req.reply:
		return cs.send, cs.recv, nil
	case <-s.ctx.Done():
		return nil, nil, context.Cause(s.ctx)
	}
}

// Close terminates the session: an APPLICATION_CLOSE frame goes out on the
// priority mailbox ahead of any queued payload, then the terminal error is
// published to every handle.
func (s *Session) Close(code transport.ErrorCode, reason string) error {
	select {
	case <-s.ctx.Done():
		return nil
	default:
	}
	f := applicationCloseFrame{code: uint64(code), reason: reason}
	s.priority.send(f.encode())
	select {
	case s.closing <- closeSignal{code: uint64(code), reason: reason}:
	case <-s.ctx.Done():
	}
	return nil
}

// Closed returns a channel closed once the session has terminated.
func (s *Session) Closed() <-chan struct{} {
	return s.ctx.Done()
}

// Context returns a context bound to the session's lifetime.
func (s *Session) Context() context.Context {
	return s.ctx
}

// URL returns the address this session was established against.
func (s *Session) URL() *url.URL {
	return s.u
}

// SendDatagram is unsupported over the WebSocket backend: there is no
// unreliable delivery mode underneath a single ordered, reliable TCP or TLS
// stream.
func (s *Session) SendDatagram(b []byte) error {
	return ErrDatagramsUnsupported
}

// ReceiveDatagram is unsupported; see SendDatagram.
func (s *Session) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	return nil, ErrDatagramsUnsupported
}

// MaxDatagramSize reports 0, since datagrams are unsupported.
func (s *Session) MaxDatagramSize() int {
	return 0
}

var _ transport.Session = (*Session)(nil)
