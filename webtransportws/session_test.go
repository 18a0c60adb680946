// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, chan *Session) {
	t.Helper()
	sessions := make(chan *Session, 4)
	srv := &Server{Handler: func(s *Session) { sessions <- s }}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, sessions
}

func TestDialerAndServerEstablishSession(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	defer cli.Close(0, "")

	select {
	case <-sessions:
	case <-time.After(time.Second):
		t.Fatal("server never saw the session")
	}
}

func TestUnidirectionalStreamDelivery(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	defer cli.Close(0, "")

	srv := <-sessions

	send, err := cli.OpenUni(context.Background())
	require.NoError(t, err)
	_, err = send.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, send.Close())

	recv, err := srv.AcceptUni(context.Background())
	require.NoError(t, err)

	got, err := io.ReadAll(readerFunc(recv.Read))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestBidirectionalStreamEcho(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	defer cli.Close(0, "")

	srv := <-sessions

	echoErr := make(chan error, 1)
	go func() {
		send, recv, err := srv.AcceptBi(context.Background())
		if err != nil {
			echoErr <- err
			return
		}
		got, err := io.ReadAll(readerFunc(recv.Read))
		if err != nil {
			echoErr <- err
			return
		}
		if _, err := send.Write([]byte("echo:" + string(got))); err != nil {
			echoErr <- err
			return
		}
		echoErr <- send.Close()
	}()

	send, recv, err := cli.OpenBi(context.Background())
	require.NoError(t, err)
	_, err = send.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, send.Close())

	got, err := io.ReadAll(readerFunc(recv.Read))
	require.NoError(t, err)
	require.Equal(t, "echo:ping", string(got))

	require.NoError(t, <-echoErr)
}

func TestStreamResetPropagatesToPeer(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	defer cli.Close(0, "")

	srv := <-sessions

	send, err := cli.OpenUni(context.Background())
	require.NoError(t, err)
	_, err = send.Write([]byte("partial"))
	require.NoError(t, err)
	send.Reset(42)

	recv, err := srv.AcceptUni(context.Background())
	require.NoError(t, err)

	_, err = io.ReadAll(readerFunc(recv.Read))
	require.Error(t, err)
	var resetErr *StreamResetError
	require.ErrorAs(t, err, &resetErr)
	require.Equal(t, uint64(42), resetErr.Code)
}

func TestSessionCloseNotifiesPeer(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)

	srv := <-sessions
	require.NoError(t, cli.Close(13, "done"))

	select {
	case <-srv.Closed():
	case <-time.After(time.Second):
		t.Fatal("server session was never closed")
	}
}

func TestDatagramsUnsupported(t *testing.T) {
	ts, sessions := newTestServer(t)

	cli, err := (&Dialer{}).Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	defer cli.Close(0, "")
	<-sessions

	require.ErrorIs(t, cli.SendDatagram([]byte("x")), ErrDatagramsUnsupported)
	_, err = cli.ReceiveDatagram(context.Background())
	require.ErrorIs(t, err, ErrDatagramsUnsupported)
	require.Zero(t, cli.MaxDatagramSize())
}

func TestServerRejectsMissingSubprotocol(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// readerFunc adapts a Read method value to io.Reader.
type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
