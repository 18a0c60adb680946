// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/loopline-io/webtransport/transport"
)

var errStreamFinished = errors.New("webtransportws: stream already finished")

// sendStream is the application handle for the write half of a stream. It
// holds only channel endpoints and local counters; STREAM frames go to the
// muxer through the bounded outbound mailbox, RESET_STREAM through the
// priority mailbox.
type sendStream struct {
	sess  *Session
	id    StreamID
	state *sendState

	mu        sync.Mutex
	offset    uint64
	fin       bool
	closedErr error

	closed    chan struct{}
	closeOnce sync.Once
}

func newSendStream(sess *Session, id StreamID, state *sendState) *sendStream {
	s := &sendStream{sess: sess, id: id, state: state, closed: make(chan struct{})}
	go s.watch()
	return s
}

// watch waits for an inbound STOP_SENDING or the session's end, whichever
// comes first, and records the terminal error.
func (s *sendStream) watch() {
	select {
	case code := <-s.state.stopped:
		s.mu.Lock()
		if s.closedErr == nil {
			s.closedErr = &StreamStoppedError{Code: code}
		}
		s.mu.Unlock()
	case <-s.sess.ctx.Done():
		s.mu.Lock()
		if s.closedErr == nil {
			s.closedErr = context.Cause(s.sess.ctx)
		}
		s.mu.Unlock()
	}
	s.markClosed()
}

func (s *sendStream) markClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *sendStream) terminalError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedErr != nil {
		return s.closedErr
	}
	return ErrClosed
}

// Write packages p in a STREAM frame and waits for a slot in the outbound
// mailbox. A STOP_SENDING arriving first wins: Write returns the stop error
// instead of enqueueing. A successful Write always consumes all of p, since
// the carrier has no partial frames.
func (s *sendStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	if s.closedErr != nil {
		err := s.closedErr
		s.mu.Unlock()
		return 0, err
	}
	if s.fin {
		s.mu.Unlock()
		return 0, errStreamFinished
	}
	offset := s.offset
	s.mu.Unlock()

	f := streamFrame{id: s.id, offset: offset, data: p}
	select {
	case s.sess.outbound <- f.encode():
	case <-s.closed:
		return 0, s.terminalError()
	case <-s.sess.ctx.Done():
		return 0, context.Cause(s.sess.ctx)
	}

	s.mu.Lock()
	s.offset += uint64(len(p))
	s.mu.Unlock()
	return len(p), nil
}

// WriteChunk is identical to Write: the frame encoder copies p either way.
func (s *sendStream) WriteChunk(p []byte) (int, error) {
	return s.Write(p)
}

// SetPriority is a no-op; WebSocket carries one ordered byte stream and has
// no notion of inter-stream scheduling priority.
func (s *sendStream) SetPriority(priority int) {}

// Reset abandons the stream, notifying the peer with an application error
// code instead of a normal FIN. The frame travels on the priority mailbox
// so it preempts any payload still queued behind it.
func (s *sendStream) Reset(code transport.ErrorCode) {
	s.mu.Lock()
	if s.closedErr != nil {
		s.mu.Unlock()
		return
	}
	s.closedErr = &StreamResetError{Code: uint64(code)}
	offset := s.offset
	s.mu.Unlock()

	f := resetStreamFrame{id: s.id, code: uint64(code), size: offset}
	s.sess.priority.send(f.encode())
	s.markClosed()
}

// Close enqueues a final, empty STREAM frame with the FIN bit set.
func (s *sendStream) Close() error {
	s.mu.Lock()
	if s.closedErr != nil {
		err := s.closedErr
		s.mu.Unlock()
		return err
	}
	if s.fin {
		s.mu.Unlock()
		return nil
	}
	offset := s.offset
	s.mu.Unlock()

	f := streamFrame{id: s.id, offset: offset, fin: true}
	select {
	case s.sess.outbound <- f.encode():
	case <-s.closed:
		return s.terminalError()
	case <-s.sess.ctx.Done():
		return context.Cause(s.sess.ctx)
	}

	s.mu.Lock()
	s.fin = true
	s.mu.Unlock()
	s.markClosed()
	return nil
}

func (s *sendStream) Closed() <-chan struct{} {
	return s.closed
}

var _ transport.SendStream = (*sendStream)(nil)

// recvStream is the application handle for the read half of a stream. The
// muxer fans inbound STREAM frames into the per-stream data mailbox; a
// RESET_STREAM arrives on the reset channel and the data mailbox is closed
// behind it.
type recvStream struct {
	sess  *Session
	id    StreamID
	state *recvState

	mu        sync.Mutex
	buffer    []byte
	fin       bool
	closedErr error

	closed    chan struct{}
	closeOnce sync.Once
}

func newRecvStream(sess *Session, id StreamID, state *recvState) *recvStream {
	s := &recvStream{sess: sess, id: id, state: state, closed: make(chan struct{})}
	go s.watch()
	return s
}

// watch records the session's terminal error. Stream-level endings (FIN,
// reset, stop) are observed by Read and Stop themselves.
func (s *recvStream) watch() {
	<-s.sess.ctx.Done()
	s.mu.Lock()
	if s.closedErr == nil {
		s.closedErr = context.Cause(s.sess.ctx)
	}
	s.mu.Unlock()
	s.markClosed()
}

func (s *recvStream) markClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Read blocks until data, a FIN, a reset or the session's end.
func (s *recvStream) Read(p []byte) (int, error) {
	for {
		s.mu.Lock()
		if len(s.buffer) > 0 {
			n := copy(p, s.buffer)
			s.buffer = s.buffer[n:]
			s.mu.Unlock()
			return n, nil
		}
		if s.fin {
			s.mu.Unlock()
			s.markClosed()
			return 0, io.EOF
		}
		if s.closedErr != nil {
			err := s.closedErr
			s.mu.Unlock()
			return 0, err
		}
		s.mu.Unlock()

		select {
		case sf, ok := <-s.state.data.recv():
			if !ok {
				s.endWithoutFin()
				continue
			}
			s.mu.Lock()
			s.buffer = sf.data
			s.fin = sf.fin
			s.mu.Unlock()
		case code := <-s.state.reset:
			s.mu.Lock()
			s.closedErr = &StreamResetError{Code: code}
			s.mu.Unlock()
			s.markClosed()
		case <-s.sess.ctx.Done():
			s.mu.Lock()
			if s.closedErr == nil {
				s.closedErr = context.Cause(s.sess.ctx)
			}
			s.mu.Unlock()
			s.markClosed()
		}
	}
}

// endWithoutFin records the terminal state after the data mailbox drained
// with no FIN delivered: a reset if one was queued (the muxer enqueues the
// reset code before closing the mailbox), the session's error if it ended,
// a bare close otherwise.
func (s *recvStream) endWithoutFin() {
	s.mu.Lock()
	if s.closedErr == nil {
		select {
		case code := <-s.state.reset:
			s.closedErr = &StreamResetError{Code: code}
		default:
			select {
			case <-s.sess.ctx.Done():
				s.closedErr = context.Cause(s.sess.ctx)
			default:
				s.closedErr = ErrClosed
			}
		}
	}
	s.mu.Unlock()
	s.markClosed()
}

// ReadChunk reads up to max bytes in a single allocation.
func (s *recvStream) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := s.Read(buf)
	return buf[:n], err
}

// Stop asks the peer to stop sending on this stream, via the priority
// mailbox.
func (s *recvStream) Stop(code transport.ErrorCode) {
	s.mu.Lock()
	if s.closedErr != nil {
		s.mu.Unlock()
		return
	}
	s.closedErr = &StreamStoppedError{Code: uint64(code)}
	s.mu.Unlock()

	f := stopSendingFrame{id: s.id, code: uint64(code)}
	s.sess.priority.send(f.encode())
	s.markClosed()
}

func (s *recvStream) Closed() <-chan struct{} {
	return s.closed
}

var _ transport.RecvStream = (*recvStream)(nil)
