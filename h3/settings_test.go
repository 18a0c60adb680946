// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsMapToFrameFromFrameRoundTrip(t *testing.T) {
	s := EnableWebtransport(4)

	f := s.ToFrame()
	require.Equal(t, uint64(FRAME_SETTINGS), f.Type)

	got := make(SettingsMap)
	require.NoError(t, got.FromFrame(f))
	require.Equal(t, s, got)
}

func TestFromFrameDuplicateSettingIsLastWriteWins(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{byte(ENABLE_CONNECT_PROTOCOL), 1})
	buf.Write([]byte{byte(ENABLE_CONNECT_PROTOCOL), 7})

	f := Frame{Type: FRAME_SETTINGS, Length: uint64(buf.Len()), Data: buf.Bytes()}
	s := make(SettingsMap)
	require.NoError(t, s.FromFrame(f))
	require.Equal(t, uint64(7), s[ENABLE_CONNECT_PROTOCOL])
}

func TestSupportsWebtransportCurrentDraft(t *testing.T) {
	s := SettingsMap{
		ENABLE_DATAGRAM:           1,
		WEBTRANSPORT_MAX_SESSIONS: 8,
	}
	require.Equal(t, uint64(8), s.SupportsWebtransport())
}

func TestSupportsWebtransportDeprecatedDraft(t *testing.T) {
	s := SettingsMap{
		ENABLE_DATAGRAM_DEPRECATED:           1,
		WEBTRANSPORT_ENABLE_DEPRECATED:       1,
		WEBTRANSPORT_MAX_SESSIONS_DEPRECATED: 3,
	}
	require.Equal(t, uint64(3), s.SupportsWebtransport())
}

func TestSupportsWebtransportRequiresDatagrams(t *testing.T) {
	s := SettingsMap{WEBTRANSPORT_MAX_SESSIONS: 8}
	require.Equal(t, uint64(0), s.SupportsWebtransport())
}

func TestSupportsWebtransportNoneAdvertised(t *testing.T) {
	s := SettingsMap{ENABLE_DATAGRAM: 1}
	require.Equal(t, uint64(0), s.SupportsWebtransport())
}

func TestReadWriteControlStreamSettings(t *testing.T) {
	s := EnableWebtransport(2)

	var buf bytes.Buffer
	require.NoError(t, WriteControlStreamSettings(&buf, s))

	got, err := ReadControlStreamSettings(&buf)
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestSettingIDString(t *testing.T) {
	require.Equal(t, "ENABLE_CONNECT_PROTOCOL", ENABLE_CONNECT_PROTOCOL.String())
	require.Contains(t, SettingID(0xdead).String(), "0x")
}
