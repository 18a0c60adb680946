// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"bytes"
	"testing"

	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/require"
)

func TestFrameWriteReadRoundTrip(t *testing.T) {
	f := Frame{Type: FRAME_SETTINGS, Data: []byte{0x01, 0x02, 0x03}}
	f.Length = uint64(len(f.Data))

	var buf bytes.Buffer
	_, err := f.Write(&buf)
	require.NoError(t, err)

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, f.Type, got.Type)
	require.Equal(t, f.Data, got.Data)
}

func TestFrameWebtransportStreamCarriesSessionID(t *testing.T) {
	f := Frame{Type: FRAME_WEBTRANSPORT_STREAM, SessionID: 42}

	var buf bytes.Buffer
	_, err := f.Write(&buf)
	require.NoError(t, err)

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, FRAME_WEBTRANSPORT_STREAM, int(got.Type))
	require.Equal(t, uint64(42), got.SessionID)
	require.Empty(t, got.Data)
}

func TestReadFrameSkipsGreaseFrames(t *testing.T) {
	var buf bytes.Buffer
	// A grease frame type (0x21) with a short payload.
	buf.Write(quicvarint.Append(nil, 0x21))
	buf.Write(quicvarint.Append(nil, 2))
	buf.Write([]byte{0xaa, 0xbb})

	real := Frame{Type: FRAME_DATA, Data: []byte("hello")}
	real.Length = uint64(len(real.Data))
	_, err := real.Write(&buf)
	require.NoError(t, err)

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(FRAME_DATA), got.Type)
	require.Equal(t, []byte("hello"), got.Data)
}

func TestErrUnexpectedFrame(t *testing.T) {
	err := &ErrUnexpectedFrame{Got: FRAME_DATA, Expected: FRAME_HEADERS}
	require.Contains(t, err.Error(), "0x0")
	require.Contains(t, err.Error(), "0x1")
}
