// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package baton

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loopline-io/webtransport/internal/mocks"
	"github.com/loopline-io/webtransport/transport"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name      string
		uri       string
		wantValue uint8
		wantCount uint16
		wantErr   bool
	}{
		{name: "defaults", uri: "https://example.com/webtransport/devious-baton", wantCount: 1},
		{name: "explicit baton and count", uri: "https://example.com/webtransport/devious-baton?baton=17&count=3", wantValue: 17, wantCount: 3},
		{name: "version zero is fine", uri: "https://example.com/webtransport/devious-baton?version=0&baton=5", wantValue: 5, wantCount: 1},
		{name: "wrong path", uri: "https://example.com/other", wantErr: true},
		{name: "unsupported version", uri: "https://example.com/webtransport/devious-baton?version=1", wantErr: true},
		{name: "baton out of range", uri: "https://example.com/webtransport/devious-baton?baton=0", wantErr: true},
		{name: "baton too large", uri: "https://example.com/webtransport/devious-baton?baton=256", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, err := url.Parse(c.uri)
			require.NoError(t, err)

			value, count, err := Parse(u)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.wantCount, count)
			if c.wantValue != 0 {
				require.Equal(t, c.wantValue, value)
			}
		})
	}
}

func TestParseRandomBatonInRange(t *testing.T) {
	u, err := url.Parse("https://example.com/webtransport/devious-baton")
	require.NoError(t, err)

	value, _, err := Parse(u)
	require.NoError(t, err)
	require.GreaterOrEqual(t, value, uint8(1))
}

// blockOnCtx parks until ctx is done, standing in for an Accept call that
// should never resolve during a test.
func blockOnCtx(ctx context.Context) {
	<-ctx.Done()
}

// TestRunServerSingleRoundTrip exercises the server side of a single baton
// chain: it sends the initial baton on a fresh unidirectional stream, and
// the reply arrives as a zero baton on a peer-initiated bidirectional
// stream, which terminates the exchange.
func TestRunServerSingleRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)

	session := mocks.NewMockSession(ctrl)
	uniSend := mocks.NewMockSendStream(ctrl)
	biSend := mocks.NewMockSendStream(ctrl)
	biRecv := mocks.NewMockRecvStream(ctrl)

	never := make(chan struct{})
	session.EXPECT().Closed().Return((<-chan struct{})(never)).AnyTimes()

	uniSend.EXPECT().Write([]byte{0, 255}).Return(2, nil)
	uniSend.EXPECT().Close().Return(nil)
	session.EXPECT().OpenUni(gomock.Any()).Return(uniSend, nil).Times(1)

	session.EXPECT().AcceptUni(gomock.Any()).DoAndReturn(func(ctx context.Context) (transport.RecvStream, error) {
		blockOnCtx(ctx)
		return nil, ctx.Err()
	}).AnyTimes()

	first := true
	session.EXPECT().AcceptBi(gomock.Any()).DoAndReturn(func(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
		if first {
			first = false
			return biSend, biRecv, nil
		}
		blockOnCtx(ctx)
		return nil, nil, ctx.Err()
	}).AnyTimes()

	gomock.InOrder(
		biRecv.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, []byte{0, 0}), nil
		}),
		biRecv.EXPECT().Read(gomock.Any()).Return(0, io.EOF),
	)

	value := uint8(255)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := Run(ctx, session, &value, 1, zerolog.Nop())
	require.NoError(t, err)
}

func TestSendAndRecvBaton(t *testing.T) {
	ctrl := gomock.NewController(t)

	send := mocks.NewMockSendStream(ctrl)
	send.EXPECT().Write([]byte{0, 42}).Return(2, nil)
	send.EXPECT().Close().Return(nil)
	require.NoError(t, sendBaton(send, 42))

	recv := mocks.NewMockRecvStream(ctrl)
	gomock.InOrder(
		recv.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, []byte{0, 42}), nil
		}),
		recv.EXPECT().Read(gomock.Any()).Return(0, io.EOF),
	)
	value, err := recvBaton(recv)
	require.NoError(t, err)
	require.Equal(t, byte(42), value)
}

func TestRecvBatonTooShort(t *testing.T) {
	ctrl := gomock.NewController(t)
	recv := mocks.NewMockRecvStream(ctrl)
	recv.EXPECT().Read(gomock.Any()).Return(0, io.EOF)

	_, err := recvBaton(recv)
	require.Error(t, err)
}
