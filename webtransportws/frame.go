// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webtransportws implements a WebTransport session carried over a
// plain WebSocket connection, for clients and servers that cannot negotiate
// HTTP/3. Each WebSocket binary message carries one QUIC-style frame
// (STREAM, RESET_STREAM, STOP_SENDING or a connection-level close), so a
// single WebSocket connection can still multiplex many logical streams.
package webtransportws

import (
	"fmt"

	"github.com/loopline-io/webtransport/varint"
)

// Frame types. STREAM is a base value OR'd with flag bits FIN/LEN/OFF, so
// the wire value ranges over 0x08-0x0f.
const (
	frameTypePadding          = 0x00
	frameTypePing             = 0x01
	frameTypeResetStream      = 0x04
	frameTypeStopSending      = 0x05
	frameTypeStream           = 0x08
	frameTypeApplicationClose = 0x1d
)

const (
	streamFlagFIN = 0x01
	streamFlagLEN = 0x02
	streamFlagOFF = 0x04
)

// ErrInvalidFrame is returned when a WebSocket binary message names an
// unknown frame type or its STREAM data is shorter than the declared
// length. A message cut short inside a varint field yields the varint
// package's ErrUnexpectedEnd instead.
type ErrInvalidFrame struct {
	Reason string
}

func (e *ErrInvalidFrame) Error() string {
	return fmt.Sprintf("webtransportws: invalid frame: %s", e.Reason)
}

type streamFrame struct {
	id     StreamID
	offset uint64
	data   []byte
	fin    bool
}

func (f streamFrame) encode() []byte {
	typ := uint64(frameTypeStream | streamFlagLEN)
	if f.fin {
		typ |= streamFlagFIN
	}
	if f.offset != 0 {
		typ |= streamFlagOFF
	}

	buf := make([]byte, 0, 32+len(f.data))
	buf = varint.Encode(buf, typ)
	buf = varint.Encode(buf, uint64(f.id))
	if f.offset != 0 {
		buf = varint.Encode(buf, f.offset)
	}
	buf = varint.Encode(buf, uint64(len(f.data)))
	buf = append(buf, f.data...)
	return buf
}

func decodeStreamFrame(typ uint64, data []byte) (streamFrame, error) {
	id, n, err := varint.Decode(data)
	if err != nil {
		return streamFrame{}, err
	}
	data = data[n:]

	var offset uint64
	if typ&streamFlagOFF != 0 {
		offset, n, err = varint.Decode(data)
		if err != nil {
			return streamFrame{}, err
		}
		data = data[n:]
	}

	length := uint64(len(data))
	if typ&streamFlagLEN != 0 {
		length, n, err = varint.Decode(data)
		if err != nil {
			return streamFrame{}, err
		}
		data = data[n:]
	}
	if uint64(len(data)) < length {
		return streamFrame{}, &ErrInvalidFrame{Reason: "short stream data"}
	}

	return streamFrame{
		id:     StreamID(id),
		offset: offset,
		data:   data[:length],
		fin:    typ&streamFlagFIN != 0,
	}, nil
}

type resetStreamFrame struct {
	id   StreamID
	code uint64
	size uint64
}

func (f resetStreamFrame) encode() []byte {
	buf := make([]byte, 0, 24)
	buf = varint.Encode(buf, frameTypeResetStream)
	buf = varint.Encode(buf, uint64(f.id))
	buf = varint.Encode(buf, f.code)
	buf = varint.Encode(buf, f.size)
	return buf
}

func decodeResetStreamFrame(data []byte) (resetStreamFrame, error) {
	id, n, err := varint.Decode(data)
	if err != nil {
		return resetStreamFrame{}, err
	}
	data = data[n:]
	code, n, err := varint.Decode(data)
	if err != nil {
		return resetStreamFrame{}, err
	}
	data = data[n:]
	size, _, err := varint.Decode(data)
	if err != nil {
		return resetStreamFrame{}, err
	}
	return resetStreamFrame{id: StreamID(id), code: code, size: size}, nil
}

type stopSendingFrame struct {
	id   StreamID
	code uint64
}

func (f stopSendingFrame) encode() []byte {
	buf := make([]byte, 0, 16)
	buf = varint.Encode(buf, frameTypeStopSending)
	buf = varint.Encode(buf, uint64(f.id))
	buf = varint.Encode(buf, f.code)
	return buf
}

func decodeStopSendingFrame(data []byte) (stopSendingFrame, error) {
	id, n, err := varint.Decode(data)
	if err != nil {
		return stopSendingFrame{}, err
	}
	data = data[n:]
	code, _, err := varint.Decode(data)
	if err != nil {
		return stopSendingFrame{}, err
	}
	return stopSendingFrame{id: StreamID(id), code: code}, nil
}

type applicationCloseFrame struct {
	code   uint64
	reason string
}

func (f applicationCloseFrame) encode() []byte {
	buf := make([]byte, 0, 16+len(f.reason))
	buf = varint.Encode(buf, frameTypeApplicationClose)
	buf = varint.Encode(buf, f.code)
	buf = append(buf, f.reason...)
	return buf
}

func decodeApplicationCloseFrame(data []byte) (applicationCloseFrame, error) {
	code, n, err := varint.Decode(data)
	if err != nil {
		return applicationCloseFrame{}, err
	}
	return applicationCloseFrame{code: code, reason: string(data[n:])}, nil
}

// frame is the decoded form of any WebSocket binary message on a
// webtransportws connection. Exactly one of the typed fields is set,
// discriminated by typ.
type frame struct {
	typ    uint64
	stream streamFrame
	reset  resetStreamFrame
	stop   stopSendingFrame
	close  applicationCloseFrame
}

func decodeFrame(data []byte) (frame, error) {
	typ, n, err := varint.Decode(data)
	if err != nil {
		return frame{}, err
	}
	data = data[n:]

	switch {
	case typ == frameTypePadding || typ == frameTypePing:
		return frame{typ: typ}, nil
	case typ == frameTypeResetStream:
		f, err := decodeResetStreamFrame(data)
		return frame{typ: typ, reset: f}, err
	case typ == frameTypeStopSending:
		f, err := decodeStopSendingFrame(data)
		return frame{typ: typ, stop: f}, err
	case typ >= frameTypeStream && typ <= frameTypeStream|0x07:
		f, err := decodeStreamFrame(typ, data)
		return frame{typ: typ, stream: f}, err
	case typ == frameTypeApplicationClose:
		f, err := decodeApplicationCloseFrame(data)
		return frame{typ: typ, close: f}, err
	default:
		return frame{}, &ErrInvalidFrame{Reason: fmt.Sprintf("unknown frame type %#x", typ)}
	}
}
