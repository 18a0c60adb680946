// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Stream module of webtransport package.

package webtransport

import (
	"sync"

	"github.com/quic-go/quic-go"

	"github.com/loopline-io/webtransport/h3"
	"github.com/loopline-io/webtransport/transport"
)

// sendStream wraps a quic.SendStream, translating QUIC stream errors into
// the shared transport error taxonomy.
type sendStream struct {
	str       quic.SendStream
	closed    chan struct{}
	closeOnce sync.Once
}

func newSendStream(str quic.SendStream) *sendStream {
	s := &sendStream{str: str, closed: make(chan struct{})}
	// quic-go cancels the stream's context once the write side is closed,
	// reset, or stopped by the peer.
	go func() {
		<-str.Context().Done()
		s.markClosed()
	}()
	return s
}

func (s *sendStream) Write(p []byte) (int, error) {
	n, err := s.str.Write(p)
	return n, convertWriteError(err)
}

// WriteChunk is identical to Write: the QUIC carrier has no separate
// zero-copy write path.
func (s *sendStream) WriteChunk(p []byte) (int, error) {
	return s.Write(p)
}

func (s *sendStream) SetPriority(priority int) {
	if p, ok := s.str.(interface{ SetPriority(int) }); ok {
		p.SetPriority(priority)
	}
}

func (s *sendStream) Reset(code transport.ErrorCode) {
	s.str.CancelWrite(quic.StreamErrorCode(h3.ErrorToHTTP3(uint64(code))))
	s.markClosed()
}

func (s *sendStream) Close() error {
	err := s.str.Close()
	s.markClosed()
	return convertWriteError(err)
}

func (s *sendStream) Closed() <-chan struct{} {
	return s.closed
}

func (s *sendStream) markClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}

var _ transport.SendStream = (*sendStream)(nil)

// recvStream wraps a quic.ReceiveStream.
type recvStream struct {
	str       quic.ReceiveStream
	closed    chan struct{}
	closeOnce sync.Once
}

func newRecvStream(str quic.ReceiveStream) *recvStream {
	return &recvStream{str: str, closed: make(chan struct{})}
}

func (s *recvStream) Read(p []byte) (int, error) {
	n, err := s.str.Read(p)
	if err != nil {
		s.markClosed()
	}
	return n, convertReadError(err)
}

func (s *recvStream) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := s.Read(buf)
	return buf[:n], err
}

func (s *recvStream) Stop(code transport.ErrorCode) {
	s.str.CancelRead(quic.StreamErrorCode(h3.ErrorToHTTP3(uint64(code))))
	s.markClosed()
}

func (s *recvStream) Closed() <-chan struct{} {
	return s.closed
}

func (s *recvStream) markClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}

var _ transport.RecvStream = (*recvStream)(nil)
