// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Headers{
		{":method": "CONNECT", ":scheme": "https", ":authority": "example.com", ":path": "/webtransport", ":protocol": "webtransport"},
		{":status": "200"},
		{"sec-webtransport-http3-draft": "draft02"},
		{"x-custom-header": "some literal value not in the static table"},
	}

	for _, h := range cases {
		encoded := Encode(h)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, h, decoded)
	}
}

func TestEncodePseudoHeadersFirst(t *testing.T) {
	h := Headers{
		"x-custom-header": "value",
		":method":         "CONNECT",
	}
	encoded := Encode(h)

	// Skip the two prefix bytes; the first field line should be the
	// indexed :method entry (static index 15), not the literal header.
	require.Greater(t, len(encoded), 2)
	require.Equal(t, byte(0b1100_0000|15), encoded[2])
}

func TestDecodeIndexedStaticEntry(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x00)     // required insert count, delta base
	buf = append(buf, 0b1100_0000|25) // indexed, static index 25 -> :status 200
	decoded, err := Decode(buf)
	require.NoError(t, err)
	v, ok := decoded.Get(":status")
	require.True(t, ok)
	require.Equal(t, "200", v)
}

func TestDecodeRejectsDynamicTableReference(t *testing.T) {
	buf := []byte{0x00, 0x00, 0b1000_0000}
	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrDynamicEntry)
}

func TestDecodeUnexpectedEnd(t *testing.T) {
	buf := []byte{0x00}
	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestStaticTableFind(t *testing.T) {
	index, ok := staticTableFind(":method", "GET")
	require.True(t, ok)
	require.Equal(t, 17, index)

	name, value, ok := staticTableGet(index)
	require.True(t, ok)
	require.Equal(t, ":method", name)
	require.Equal(t, "GET", value)
}
