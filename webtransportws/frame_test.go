// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopline-io/webtransport/varint"
)

func TestStreamFrameEncodeDecodeRoundTrip(t *testing.T) {
	cases := []streamFrame{
		{id: NewStreamID(0, DirUni, false), data: []byte("hello")},
		{id: NewStreamID(1, DirBi, true), offset: 5, data: []byte("world"), fin: true},
		{id: NewStreamID(2, DirUni, true), data: []byte{}, fin: true},
	}

	for _, f := range cases {
		encoded := f.encode()
		typ, n, err := varint.Decode(encoded)
		require.NoError(t, err)

		got, err := decodeStreamFrame(typ, encoded[n:])
		require.NoError(t, err)
		require.Equal(t, f.id, got.id)
		require.Equal(t, f.offset, got.offset)
		require.Equal(t, f.data, got.data)
		require.Equal(t, f.fin, got.fin)
	}
}

func TestResetStreamFrameEncodeDecodeRoundTrip(t *testing.T) {
	f := resetStreamFrame{id: NewStreamID(3, DirBi, false), code: 7, size: 128}

	encoded := f.encode()
	decoded, err := decodeFrame(encoded)
	require.NoError(t, err)
	require.Equal(t, f, decoded.reset)
}

func TestStopSendingFrameEncodeDecodeRoundTrip(t *testing.T) {
	f := stopSendingFrame{id: NewStreamID(4, DirUni, true), code: 3}

	encoded := f.encode()
	decoded, err := decodeFrame(encoded)
	require.NoError(t, err)
	require.Equal(t, f, decoded.stop)
}

func TestApplicationCloseFrameEncodeDecodeRoundTrip(t *testing.T) {
	f := applicationCloseFrame{code: 9, reason: "goodbye"}

	encoded := f.encode()
	decoded, err := decodeFrame(encoded)
	require.NoError(t, err)
	require.Equal(t, f, decoded.close)
}

func TestDecodeFrameRejectsUnknownType(t *testing.T) {
	_, err := decodeFrame(varint.Encode(nil, 0x7f))
	require.Error(t, err)
	var invalid *ErrInvalidFrame
	require.ErrorAs(t, err, &invalid)
}
