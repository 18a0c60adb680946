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

func TestStreamHeaderWriteReadRoundTrip(t *testing.T) {
	cases := []StreamHeader{
		{Type: STREAM_CONTROL},
		{Type: STREAM_QPACK_ENCODER},
		{Type: STREAM_QPACK_DECODER},
		{Type: STREAM_WEBTRANSPORT_UNI_STREAM, ID: 7},
	}

	for _, h := range cases {
		var buf bytes.Buffer
		_, err := h.Write(&buf)
		require.NoError(t, err)

		var got StreamHeader
		require.NoError(t, got.Read(&buf))
		require.Equal(t, h, got)
	}
}

func TestReadStreamHeaderRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(quicvarint.Append(nil, 0x99))

	var h StreamHeader
	require.Error(t, h.Read(&buf))
}

func TestReadStreamHeaderReportsGrease(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(quicvarint.Append(nil, 0x21))

	hdr, grease, err := ReadStreamHeader(&buf)
	require.NoError(t, err)
	require.True(t, grease)
	require.Equal(t, uint64(0x21), hdr.Type)
}
