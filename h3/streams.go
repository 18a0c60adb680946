// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// ErrUnknownStreamType is returned when a unidirectional stream opens with a
// type this package does not recognize. Receivers are expected to hold and
// ignore such streams rather than fail the connection.
var ErrUnknownStreamType = errors.New("h3: unknown unidirectional stream type")

// Unidirectional stream types, see
// https://www.rfc-editor.org/rfc/rfc9114.html#section-6.2.
const (
	STREAM_CONTROL                 = 0x00
	STREAM_PUSH                    = 0x01
	STREAM_QPACK_ENCODER           = 0x02
	STREAM_QPACK_DECODER           = 0x03
	STREAM_WEBTRANSPORT_UNI_STREAM = 0x54
)

// StreamHeader is the type-and-optional-id prefix carried by every
// unidirectional HTTP/3 stream.
type StreamHeader struct {
	Type uint64
	ID   uint64
}

// ReadStreamHeader reads the next stream header from r, returning
// grease == true in place of an error when the peer opened a grease stream;
// callers should read until EOF and discard the stream rather than treat it
// as a protocol violation. See RFC 9114 §7.2.8.
func ReadStreamHeader(r io.Reader) (hdr StreamHeader, grease bool, err error) {
	qr := quicvarint.NewReader(r)
	t, err := quicvarint.Read(qr)
	if err != nil {
		return StreamHeader{}, false, err
	}
	if IsGreaseValue(t) {
		return StreamHeader{Type: t}, true, nil
	}

	hdr.Type = t
	switch t {
	case STREAM_CONTROL, STREAM_QPACK_ENCODER, STREAM_QPACK_DECODER:
		return hdr, false, nil
	case STREAM_PUSH, STREAM_WEBTRANSPORT_UNI_STREAM:
		id, err := quicvarint.Read(qr)
		if err != nil {
			return StreamHeader{}, false, err
		}
		hdr.ID = id
		return hdr, false, nil
	default:
		return StreamHeader{}, false, fmt.Errorf("%w: %#x", ErrUnknownStreamType, t)
	}
}

// Read reads the stream header from the reader and stores it in the StreamHeader.
func (s *StreamHeader) Read(r io.Reader) error {
	hdr, grease, err := ReadStreamHeader(r)
	if err != nil {
		return err
	}
	if grease {
		return fmt.Errorf("h3: grease stream type %#x", hdr.Type)
	}
	*s = hdr
	return nil
}

// Write writes the stream header to the writer.
func (s *StreamHeader) Write(w io.Writer) (int64, error) {
	buf := &bytes.Buffer{}

	buf.Write(quicvarint.Append(nil, s.Type))

	switch s.Type {
	case STREAM_CONTROL, STREAM_QPACK_ENCODER, STREAM_QPACK_DECODER:
		return buf.WriteTo(w)
	case STREAM_PUSH, STREAM_WEBTRANSPORT_UNI_STREAM:
		buf.Write(quicvarint.Append(nil, s.ID))
		return buf.WriteTo(w)
	default:
		return 0, fmt.Errorf("%w: %#x", ErrUnknownStreamType, s.Type)
	}
}
