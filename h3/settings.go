// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"bytes"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// Settings IDs.
const (
	// https://datatracker.ietf.org/doc/html/draft-ietf-quic-http-34
	SETTINGS_MAX_FIELD_SECTION_SIZE = SettingID(0x6)

	// https://datatracker.ietf.org/doc/html/draft-ietf-quic-qpack-21
	SETTINGS_QPACK_MAX_TABLE_CAPACITY = SettingID(0x1)
	SETTINGS_QPACK_BLOCKED_STREAMS    = SettingID(0x7)

	// https://datatracker.ietf.org/doc/html/draft-ietf-masque-h3-datagram-05#section-9.1
	H3_DATAGRAM_05 = SettingID(0xffd277)

	// https://www.rfc-editor.org/rfc/rfc9220.html
	ENABLE_CONNECT_PROTOCOL = SettingID(0x8)

	// WEBTRANSPORT_MAX_SESSIONS is the current (non-deprecated) form of the
	// per-connection session limit.
	WEBTRANSPORT_MAX_SESSIONS = SettingID(0xc671706a)
	// WEBTRANSPORT_MAX_SESSIONS_DEPRECATED and WEBTRANSPORT_ENABLE_DEPRECATED
	// are carried for interop with peers implementing earlier WebTransport
	// drafts, mirroring draft "-02" deployments still in the wild.
	WEBTRANSPORT_MAX_SESSIONS_DEPRECATED = SettingID(0x2b603743)
	WEBTRANSPORT_ENABLE_DEPRECATED       = SettingID(0x2b603742)

	// ENABLE_DATAGRAM and its deprecated predecessor both signal RFC 9297
	// HTTP Datagram support; WebTransport requires one of the two be set.
	ENABLE_DATAGRAM            = SettingID(0x33)
	ENABLE_DATAGRAM_DEPRECATED = SettingID(0xffd277)
)

type SettingID uint64

type SettingsMap map[SettingID]uint64

// EnableWebtransport returns the settings a peer must send to offer
// WebTransport support for up to maxSessions concurrent sessions. It sets
// both the current and deprecated forms of every relevant setting so it
// interoperates with peers implementing either generation of the draft.
func EnableWebtransport(maxSessions uint64) SettingsMap {
	return SettingsMap{
		ENABLE_CONNECT_PROTOCOL:              1,
		ENABLE_DATAGRAM:                      1,
		ENABLE_DATAGRAM_DEPRECATED:           1,
		WEBTRANSPORT_MAX_SESSIONS:            maxSessions,
		WEBTRANSPORT_MAX_SESSIONS_DEPRECATED: maxSessions,
		WEBTRANSPORT_ENABLE_DEPRECATED:       1,
	}
}

// SupportsWebtransport reports the number of concurrent WebTransport
// sessions the peer advertised support for, or 0 if it did not advertise
// WebTransport support at all. Datagram support is required either way;
// the current-draft WEBTRANSPORT_MAX_SESSIONS wins over the deprecated
// enable/max pair when both generations are present.
func (s SettingsMap) SupportsWebtransport() uint64 {
	datagram := s[ENABLE_DATAGRAM] == 1 || s[ENABLE_DATAGRAM_DEPRECATED] == 1
	if !datagram {
		return 0
	}

	if max, ok := s[WEBTRANSPORT_MAX_SESSIONS]; ok {
		return max
	}

	if s[WEBTRANSPORT_ENABLE_DEPRECATED] != 1 {
		return 0
	}
	if max, ok := s[WEBTRANSPORT_MAX_SESSIONS_DEPRECATED]; ok {
		return max
	}
	return 1
}

// FromFrame reads a Frame and stores it in the SettingsMap.
//
// It returns an error if the frame size is too large. GREASE ids are
// discarded; a duplicate id overwrites whatever value was read for it
// earlier in the frame.
func (s *SettingsMap) FromFrame(f Frame) error {
	if f.Length > 8*(1<<10) {
		return fmt.Errorf("h3: unexpected size for SETTINGS frame: %d", f.Length)
	}

	b := bytes.NewReader(f.Data)
	for b.Len() > 0 {
		id, err := quicvarint.Read(b)
		if err != nil { // should not happen. We allocated the whole frame already.
			return err
		}
		val, err := quicvarint.Read(b)
		if err != nil { // should not happen. We allocated the whole frame already.
			return err
		}

		if IsGreaseValue(id) {
			continue
		}
		(*s)[SettingID(id)] = val
	}
	return nil
}

// ToFrame converts the SettingsMap to a frame.
func (s SettingsMap) ToFrame() Frame {
	f := Frame{Type: FRAME_SETTINGS}

	var l uint64
	for id, val := range s {
		l += uint64(quicvarint.Len(uint64(id)) + quicvarint.Len(val))
	}

	f.Length = l
	b := &bytes.Buffer{}
	for id, val := range s {
		b.Write(quicvarint.Append(nil, uint64(id)))
		b.Write(quicvarint.Append(nil, val))
	}
	f.Data = b.Bytes()

	return f
}

// ReadControlStreamSettings reads the mandatory STREAM_CONTROL stream type
// prefix followed by a SETTINGS frame, the first thing each peer must send
// on the stream it opens after a connection is established. Any other frame
// type in this position is a protocol error.
func ReadControlStreamSettings(r io.Reader) (SettingsMap, error) {
	hdr, grease, err := ReadStreamHeader(r)
	if err != nil {
		return nil, err
	}
	if grease || hdr.Type != STREAM_CONTROL {
		return nil, fmt.Errorf("h3: expected control stream, got type %#x", hdr.Type)
	}

	f, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	if f.Type != FRAME_SETTINGS {
		return nil, &ErrUnexpectedFrame{Got: f.Type, Expected: FRAME_SETTINGS}
	}

	s := make(SettingsMap)
	if err := s.FromFrame(f); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteControlStreamSettings writes the STREAM_CONTROL prefix followed by
// the SETTINGS frame encoding s.
func WriteControlStreamSettings(w io.Writer, s SettingsMap) error {
	hdr := StreamHeader{Type: STREAM_CONTROL}
	if _, err := hdr.Write(w); err != nil {
		return err
	}
	f := s.ToFrame()
	_, err := f.Write(w)
	return err
}

// String returns a human-readable representation of the setting ID.
func (id SettingID) String() string {
	switch id {
	case SETTINGS_QPACK_MAX_TABLE_CAPACITY:
		return "QPACK_MAX_TABLE_CAPACITY"
	case SETTINGS_MAX_FIELD_SECTION_SIZE:
		return "MAX_FIELD_SECTION_SIZE"
	case SETTINGS_QPACK_BLOCKED_STREAMS:
		return "QPACK_BLOCKED_STREAMS"
	case ENABLE_CONNECT_PROTOCOL:
		return "ENABLE_CONNECT_PROTOCOL"
	case WEBTRANSPORT_ENABLE_DEPRECATED:
		return "WEBTRANSPORT_ENABLE_DEPRECATED"
	case WEBTRANSPORT_MAX_SESSIONS:
		return "WEBTRANSPORT_MAX_SESSIONS"
	case H3_DATAGRAM_05:
		return "H3_DATAGRAM_05"
	default:
		return fmt.Sprintf("%#x", uint64(id))
	}
}
