// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"context"
	"crypto/tls"
	"io"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"

	"github.com/loopline-io/webtransport/transport"
)

// startRawPair establishes a loopback QUIC connection and wraps both ends as
// raw WebTransport sessions, skipping the HTTP/3 layer entirely.
func startRawPair(t *testing.T) (client, server *RawSession) {
	t.Helper()
	certPEM, keyPEM := generateSelfSignedCert(t)
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	serverTLS := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{"wt-raw"},
	}
	quicConf := &quic.Config{EnableDatagrams: true}

	listener, err := quic.ListenAddr(freeUDPLoopbackAddr(t), serverTLS, quicConf)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	accepted := make(chan quic.Connection, 1)
	go func() {
		conn, err := listener.Accept(ctx)
		if err != nil {
			return
		}
		accepted <- conn
	}()

	clientTLS := &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"wt-raw"}}
	clientConn, err := quic.DialAddr(ctx, listener.Addr().String(), clientTLS, quicConf)
	require.NoError(t, err)

	var serverConn quic.Connection
	select {
	case serverConn = <-accepted:
	case <-time.After(5 * time.Second):
		t.Fatal("listener never accepted the connection")
	}

	return NewRawSession(clientConn), NewRawSession(serverConn)
}

func TestRawSessionStreamRoundTrip(t *testing.T) {
	cli, srv := startRawPair(t)
	defer cli.Close(0, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	send, err := cli.OpenUni(ctx)
	require.NoError(t, err)
	_, err = send.Write([]byte("raw bytes"))
	require.NoError(t, err)
	require.NoError(t, send.Close())

	recv, err := srv.AcceptUni(ctx)
	require.NoError(t, err)
	got, err := io.ReadAll(recv)
	require.NoError(t, err)
	require.Equal(t, "raw bytes", string(got))
}

func TestRawSessionDatagramHasNoPrefix(t *testing.T) {
	cli, srv := startRawPair(t)
	defer cli.Close(0, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.Equal(t, maxDatagramPayload, cli.MaxDatagramSize())
	require.NoError(t, cli.SendDatagram([]byte("ping")))

	got, err := srv.ReceiveDatagram(ctx)
	require.NoError(t, err)
	require.Equal(t, "ping", string(got))
}

func TestRawSessionClosePropagates(t *testing.T) {
	cli, srv := startRawPair(t)

	require.NoError(t, srv.Close(5, "done"))

	select {
	case <-cli.Closed():
	case <-time.After(5 * time.Second):
		t.Fatal("client never observed the close")
	}

	var closedErr *transport.ConnectionClosedError
	require.ErrorAs(t, context.Cause(cli.Context()), &closedErr)
	require.Equal(t, transport.ErrorCode(5), closedErr.Code)
	require.Equal(t, "done", closedErr.Reason)
}
