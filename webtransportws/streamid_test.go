// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStreamIDEncodesDirAndRole(t *testing.T) {
	cases := []struct {
		name     string
		n        uint64
		dir      StreamDir
		isServer bool
	}{
		{"client bi", 0, DirBi, false},
		{"server bi", 0, DirBi, true},
		{"client uni", 0, DirUni, false},
		{"server uni", 0, DirUni, true},
		{"second client bi", 1, DirBi, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id := NewStreamID(c.n, c.dir, c.isServer)
			require.Equal(t, c.dir, id.Dir())
			require.Equal(t, c.isServer, id.ServerInitiated())
		})
	}
}

func TestStreamIDCanSendCanRecvUni(t *testing.T) {
	serverUni := NewStreamID(0, DirUni, true)
	require.True(t, serverUni.CanSend(true))
	require.False(t, serverUni.CanSend(false))
	require.True(t, serverUni.CanRecv(false))
	require.False(t, serverUni.CanRecv(true))

	clientUni := NewStreamID(0, DirUni, false)
	require.True(t, clientUni.CanSend(false))
	require.False(t, clientUni.CanSend(true))
	require.True(t, clientUni.CanRecv(true))
	require.False(t, clientUni.CanRecv(false))
}

func TestStreamIDCanSendCanRecvBi(t *testing.T) {
	bi := NewStreamID(0, DirBi, true)
	require.True(t, bi.CanSend(true))
	require.True(t, bi.CanSend(false))
	require.True(t, bi.CanRecv(true))
	require.True(t, bi.CanRecv(false))
}
