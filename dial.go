// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"context"
	"crypto/tls"
	"net/url"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/h3"
)

// A Dialer establishes outgoing WebTransport sessions.
type Dialer struct {
	// TLSConfig is cloned and augmented with the HTTP/3 ALPN protocols
	// before each dial; leave it nil to use Go's default root trust store.
	TLSConfig *tls.Config
	// MaxSessions advertises how many concurrent sessions this endpoint is
	// willing to support over the connection. Defaults to 1.
	MaxSessions uint64
	// QuicConfig carries additional configuration parameters for the QUIC
	// connection.
	QuicConfig *QuicConfig
	// Logger receives structured diagnostics; the zero value is a quiet
	// logger that discards everything.
	Logger zerolog.Logger
}

// Dial establishes a new QUIC connection to urlStr's host and opens a
// WebTransport session on it, performing the SETTINGS exchange and the
// extended-CONNECT handshake described in
// https://www.ietf.org/archive/id/draft-ietf-webtrans-http3-02.html.
func (d *Dialer) Dial(ctx context.Context, urlStr string) (*Session, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	if d.MaxSessions == 0 {
		d.MaxSessions = 1
	}
	if d.QuicConfig == nil {
		d.QuicConfig = &QuicConfig{}
	}
	d.QuicConfig.EnableDatagrams = true

	tlsConf := clientTLSConfig(d.TLSConfig)
	if tlsConf.ServerName == "" {
		tlsConf.ServerName = u.Hostname()
	}

	conn, err := quic.DialAddr(ctx, u.Host, tlsConf, (*quic.Config)(d.QuicConfig))
	if err != nil {
		return nil, err
	}

	log := d.Logger.With().Str("remote", conn.RemoteAddr().String()).Logger()

	peerMax, err := exchangeSettings(ctx, conn, d.MaxSessions)
	if err != nil {
		conn.CloseWithError(0, "")
		return nil, err
	}
	log.Debug().Uint64("peer_max_sessions", peerMax).Msg("settings exchange complete")

	mux := newConnMux(conn, log)
	mux.run(ctx)

	str, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "")
		return nil, err
	}

	connectReq := h3.ConnectRequest{Authority: u.Host, Path: requestPath(u)}
	if err := h3.WriteConnectRequest(str, connectReq); err != nil {
		str.Close()
		return nil, err
	}
	if _, err := h3.ReadConnectResponse(str); err != nil {
		str.Close()
		return nil, err
	}

	sess := newSession(conn, str, mux, u, log)
	mux.register(sess)
	return sess, nil
}

func requestPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
