// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package baton implements the devious-baton exchange
// (draft-frindell-webtrans-devious-baton): a minimal, well-specified
// application protocol used to exercise stream lifecycle and directionality
// across a WebTransport session. Goroutines perform the blocking stream
// work and feed result channels into a single dispatching select loop.
package baton

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/transport"
)

// Path is the fixed request path every devious-baton session is established
// against.
const Path = "/webtransport/devious-baton"

// Parse extracts the initial baton value and baton count from a
// devious-baton request URI's query string: version (must be absent or 0),
// baton (1-255; a random value in that range if absent) and count (default
// 1).
func Parse(u *url.URL) (value uint8, count uint16, err error) {
	if u.Path != Path {
		return 0, 0, fmt.Errorf("baton: invalid path: %s", u.Path)
	}

	q := u.Query()

	if v := q.Get("version"); v != "" {
		version, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return 0, 0, fmt.Errorf("baton: failed to parse version: %w", err)
		}
		if version != 0 {
			return 0, 0, fmt.Errorf("baton: invalid baton version: %d", version)
		}
	}

	value = uint8(1 + rand.Intn(255))
	if b := q.Get("baton"); b != "" {
		n, err := strconv.ParseUint(b, 10, 8)
		if err != nil {
			return 0, 0, fmt.Errorf("baton: failed to parse baton: %w", err)
		}
		if n < 1 || n > 255 {
			return 0, 0, fmt.Errorf("baton: invalid baton: %d", n)
		}
		value = uint8(n)
	}

	count = 1
	if c := q.Get("count"); c != "" {
		n, err := strconv.ParseUint(c, 10, 16)
		if err != nil {
			return 0, 0, fmt.Errorf("baton: failed to parse count: %w", err)
		}
		count = uint16(n)
	}

	return value, count, nil
}

// outboundKind records which kind of stream an outbound baton was sent on,
// determining how (or whether) the exchange continues once it completes.
type outboundKind int

const (
	outboundUni outboundKind = iota
	outboundLocalBi
	outboundRemoteBi
)

func (k outboundKind) String() string {
	switch k {
	case outboundUni:
		return "Uni"
	case outboundLocalBi:
		return "LocalBi"
	case outboundRemoteBi:
		return "RemoteBi"
	default:
		return "unknown"
	}
}

// outboundResult is delivered once a goroutine finishes sending a baton.
// recv is set only for outboundLocalBi, carrying the read half of the
// self-opened bidirectional stream the reply is expected on.
type outboundResult struct {
	value byte
	kind  outboundKind
	recv  transport.RecvStream
	err   error
}

// inboundKind records which kind of stream an inbound baton arrived on,
// determining how the reply (if any) is sent.
type inboundKind int

const (
	inboundUni inboundKind = iota
	inboundLocalBi
	inboundRemoteBi
)

func (k inboundKind) String() string {
	switch k {
	case inboundUni:
		return "Uni"
	case inboundLocalBi:
		return "LocalBi"
	case inboundRemoteBi:
		return "RemoteBi"
	default:
		return "unknown"
	}
}

// inboundResult is delivered once a goroutine finishes receiving a baton.
// send is set only for inboundRemoteBi, carrying the write half of the
// peer-initiated bidirectional stream the reply must be sent back on.
type inboundResult struct {
	value byte
	kind  inboundKind
	send  transport.SendStream
	err   error
}

// Run exchanges devious-baton messages over session until every baton
// chain it started (or was handed) has wound down to zero. init is the
// initial baton value to send on count freshly opened unidirectional
// streams; pass nil on the client side, which only reacts to whatever the
// server sends. A zero-value log discards every message.
func Run(ctx context.Context, session transport.Session, init *uint8, count uint16, log zerolog.Logger) error {
	outbound := make(chan outboundResult)
	inbound := make(chan inboundResult)
	acceptUni := make(chan transport.RecvStream)
	acceptBi := make(chan acceptedBi)
	acceptErr := make(chan error, 2)

	go runAcceptUni(ctx, session, acceptUni, acceptErr)
	go runAcceptBi(ctx, session, acceptBi, acceptErr)

	outstandingOutbound := 0
	outstandingInbound := 0

	if init != nil {
		for i := uint16(0); i < count; i++ {
			outstandingOutbound++
			go sendInitial(ctx, session, *init, outbound)
		}
	}

	for count > 0 || outstandingOutbound > 0 || outstandingInbound > 0 {
		select {
		case res := <-outbound:
			outstandingOutbound--
			if res.err != nil {
				return fmt.Errorf("baton: send failed: %w", res.err)
			}
			log.Debug().Uint8("value", res.value).Str("type", res.kind.String()).Msg("sent baton")

			if res.value == 0 {
				// Sending a zero baton ends the chain on this side; the
				// peer ends it on theirs when the zero arrives.
				count--
				continue
			}
			if res.kind == outboundLocalBi {
				outstandingInbound++
				go recvFrom(res.recv, inboundLocalBi, nil, inbound)
			}

		case res := <-inbound:
			outstandingInbound--
			if res.err != nil {
				return fmt.Errorf("baton: receive failed: %w", res.err)
			}
			log.Debug().Uint8("value", res.value).Str("type", res.kind.String()).Msg("received baton")

			if res.value == 0 {
				count--
				continue
			}

			next := res.value + 1 // wraps to 0 on overflow, per protocol
			outstandingOutbound++
			switch res.kind {
			case inboundUni:
				go sendOnNewBi(ctx, session, next, outbound)
			case inboundLocalBi:
				go sendOnNewUni(ctx, session, next, outbound)
			case inboundRemoteBi:
				go sendOnExistingBi(res.send, next, outbound)
			}

		case rs, ok := <-acceptUni:
			if !ok {
				continue
			}
			outstandingInbound++
			go recvFrom(rs, inboundUni, nil, inbound)

		case bs, ok := <-acceptBi:
			if !ok {
				continue
			}
			outstandingInbound++
			go recvFrom(bs.recv, inboundRemoteBi, bs.send, inbound)

		case err := <-acceptErr:
			return fmt.Errorf("baton: accept failed: %w", err)

		case <-session.Closed():
			return context.Cause(session.Context())

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

type acceptedBi struct {
	send transport.SendStream
	recv transport.RecvStream
}

func runAcceptUni(ctx context.Context, session transport.Session, out chan<- transport.RecvStream, errs chan<- error) {
	for {
		rs, err := session.AcceptUni(ctx)
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- rs:
		case <-ctx.Done():
			return
		}
	}
}

func runAcceptBi(ctx context.Context, session transport.Session, out chan<- acceptedBi, errs chan<- error) {
	for {
		send, recv, err := session.AcceptBi(ctx)
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- acceptedBi{send: send, recv: recv}:
		case <-ctx.Done():
			return
		}
	}
}

func sendInitial(ctx context.Context, session transport.Session, value byte, out chan<- outboundResult) {
	send, err := session.OpenUni(ctx)
	if err != nil {
		out <- outboundResult{err: err}
		return
	}
	if err := sendBaton(send, value); err != nil {
		out <- outboundResult{err: err}
		return
	}
	out <- outboundResult{value: value, kind: outboundUni}
}

func sendOnNewUni(ctx context.Context, session transport.Session, value byte, out chan<- outboundResult) {
	send, err := session.OpenUni(ctx)
	if err != nil {
		out <- outboundResult{err: err}
		return
	}
	if err := sendBaton(send, value); err != nil {
		out <- outboundResult{err: err}
		return
	}
	out <- outboundResult{value: value, kind: outboundUni}
}

func sendOnNewBi(ctx context.Context, session transport.Session, value byte, out chan<- outboundResult) {
	send, recv, err := session.OpenBi(ctx)
	if err != nil {
		out <- outboundResult{err: err}
		return
	}
	if err := sendBaton(send, value); err != nil {
		out <- outboundResult{err: err}
		return
	}
	out <- outboundResult{value: value, kind: outboundLocalBi, recv: recv}
}

func sendOnExistingBi(send transport.SendStream, value byte, out chan<- outboundResult) {
	if err := sendBaton(send, value); err != nil {
		out <- outboundResult{err: err}
		return
	}
	out <- outboundResult{value: value, kind: outboundRemoteBi}
}

func recvFrom(recv transport.RecvStream, kind inboundKind, send transport.SendStream, out chan<- inboundResult) {
	value, err := recvBaton(recv)
	if err != nil {
		out <- inboundResult{err: err}
		return
	}
	out <- inboundResult{value: value, kind: kind, send: send}
}

// sendBaton writes the two-byte baton message (a reserved padding byte
// followed by the baton value) and closes the stream. The close matters:
// RecvStream.Read only reports io.EOF once FIN has been observed.
func sendBaton(s transport.SendStream, value byte) error {
	if _, err := s.Write([]byte{0, value}); err != nil {
		return err
	}
	return s.Close()
}

// recvBaton reads a stream to completion and returns its final byte, the
// baton value. The padding varint preceding it is not validated.
func recvBaton(r transport.RecvStream) (byte, error) {
	var buf []byte
	chunk := make([]byte, 256)
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
	}

	if len(buf) < 2 {
		return 0, fmt.Errorf("baton: message too small: %d bytes", len(buf))
	}
	return buf[len(buf)-1], nil
}
