// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package h3 implements the HTTP/3 framing layer WebTransport rides on top
// of: frame and unidirectional stream type discriminants, the SETTINGS
// exchange, the extended-CONNECT handshake, and the
// CLOSE_WEBTRANSPORT_SESSION capsule.
package h3

import (
	"bytes"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"

	"github.com/loopline-io/webtransport/varint"
)

// Frame types, see https://www.rfc-editor.org/rfc/rfc9114.html#section-7.2
// and the WebTransport extension draft.
const (
	FRAME_DATA                = 0x00
	FRAME_HEADERS             = 0x01
	FRAME_CANCEL_PUSH         = 0x03
	FRAME_SETTINGS            = 0x04
	FRAME_PUSH_PROMISE        = 0x05
	FRAME_GOAWAY              = 0x07
	FRAME_MAX_PUSH_ID         = 0x0D
	FRAME_WEBTRANSPORT_STREAM = 0x41
)

// IsGreaseValue reports whether v falls on the reserved "grease" codepoint
// pattern 0x21 + N*0x1f, used by frame types, stream types, settings IDs and
// error codes alike to let implementations probe for unknown-extension
// tolerance. See RFC 9114 §7.2.8.
func IsGreaseValue(v uint64) bool {
	return varint.IsGrease(v)
}

// Frame is a single HTTP/3 frame.
type Frame struct {
	Type      uint64
	SessionID uint64
	Length    uint64
	Data      []byte
}

// ReadFrame reads the next non-grease frame from r, transparently skipping
// and discarding any grease frames it encounters along the way.
func ReadFrame(r io.Reader) (Frame, error) {
	for {
		var f Frame
		if err := f.Read(r); err != nil {
			return Frame{}, err
		}
		if IsGreaseValue(f.Type) {
			continue
		}
		return f, nil
	}
}

// Read reads an HTTP/3 frame from a reader and stores it in the frame.
func (f *Frame) Read(r io.Reader) error {
	qr := quicvarint.NewReader(r)
	t, err := quicvarint.Read(qr)
	if err != nil {
		return err
	}
	l, err := quicvarint.Read(qr)
	if err != nil {
		return err
	}

	f.Type = t

	switch t {
	case FRAME_WEBTRANSPORT_STREAM:
		// For WebTransport streams, l is the session ID the stream is
		// associated with, not a length; the rest of the stream is raw data.
		f.Length = 0
		f.SessionID = l
		f.Data = []byte{}
		return nil
	default:
		f.Length = l
		f.Data = make([]byte, l)
		if l == 0 {
			return nil
		}
		_, err := io.ReadFull(r, f.Data)
		return err
	}
}

// Write writes an HTTP/3 frame to a writer.
func (f *Frame) Write(w io.Writer) (int, error) {
	buf := &bytes.Buffer{}

	buf.Write(quicvarint.Append(nil, f.Type))

	if f.Type == FRAME_WEBTRANSPORT_STREAM {
		buf.Write(quicvarint.Append(nil, f.SessionID))
	} else {
		buf.Write(quicvarint.Append(nil, f.Length))
	}

	buf.Write(f.Data)

	return w.Write(buf.Bytes())
}

// ErrUnexpectedFrame is returned when a control stream reader sees a frame
// type it did not expect at this point in the handshake.
type ErrUnexpectedFrame struct {
	Got      uint64
	Expected uint64
}

func (e *ErrUnexpectedFrame) Error() string {
	return fmt.Sprintf("h3: unexpected frame type %#x, expected %#x", e.Got, e.Expected)
}
