// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"bytes"
	"errors"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// CloseWebtransportSessionType is the HTTP Datagram/Capsule type carrying a
// graceful WebTransport session close, see
// https://www.ietf.org/archive/id/draft-ietf-webtrans-http3-02.html#section-5.
const CloseWebtransportSessionType = 0x2843

// maxCloseMessageSize bounds the CLOSE_WEBTRANSPORT_SESSION payload so a
// malicious peer cannot force an unbounded allocation.
const maxCloseMessageSize = 1024

// ErrCapsuleTooLarge is returned when a CLOSE_WEBTRANSPORT_SESSION capsule
// exceeds maxCloseMessageSize.
var ErrCapsuleTooLarge = errors.New("h3: close capsule exceeds maximum size")

// CloseWebtransportSession is the payload of a CLOSE_WEBTRANSPORT_SESSION
// capsule: an application error code and a UTF-8 reason string.
type CloseWebtransportSession struct {
	Code   uint32
	Reason string
}

// Encode returns the encoded capsule: type, length prefix, and payload.
func (c CloseWebtransportSession) Encode() []byte {
	var payload bytes.Buffer
	var codeBytes [4]byte
	codeBytes[0] = byte(c.Code >> 24)
	codeBytes[1] = byte(c.Code >> 16)
	codeBytes[2] = byte(c.Code >> 8)
	codeBytes[3] = byte(c.Code)
	payload.Write(codeBytes[:])
	payload.WriteString(c.Reason)

	var out bytes.Buffer
	out.Write(quicvarint.Append(nil, CloseWebtransportSessionType))
	out.Write(quicvarint.Append(nil, uint64(payload.Len())))
	out.Write(payload.Bytes())
	return out.Bytes()
}

// ReadCapsule reads the next non-grease capsule from r. Grease capsule
// types (see RFC 9297 §4) are skipped transparently; any other type is
// returned as raw (type, payload) for the caller to interpret, since a
// WebTransport session stream otherwise carries no capsules but this one.
func ReadCapsule(r io.Reader) (typ uint64, payload []byte, err error) {
	qr := quicvarint.NewReader(r)
	for {
		typ, err = quicvarint.Read(qr)
		if err != nil {
			return 0, nil, err
		}
		length, err := quicvarint.Read(qr)
		if err != nil {
			return 0, nil, err
		}
		payload = make([]byte, length)
		if length > 0 {
			if _, err := io.ReadFull(r, payload); err != nil {
				return 0, nil, err
			}
		}
		if IsGreaseValue(typ) {
			continue
		}
		return typ, payload, nil
	}
}

// DecodeCloseWebtransportSession parses a CLOSE_WEBTRANSPORT_SESSION
// capsule payload (the bytes after the type and length prefix).
func DecodeCloseWebtransportSession(payload []byte) (CloseWebtransportSession, error) {
	if len(payload) > maxCloseMessageSize {
		return CloseWebtransportSession{}, ErrCapsuleTooLarge
	}
	if len(payload) < 4 {
		return CloseWebtransportSession{}, io.ErrUnexpectedEOF
	}
	code := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	return CloseWebtransportSession{Code: code, Reason: string(payload[4:])}, nil
}
