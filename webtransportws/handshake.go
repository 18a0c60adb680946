// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Subprotocol is the WebSocket subprotocol identifier that marks a
// connection as carrying the WebTransport polyfill framing defined in this
// package, negotiated via the Sec-WebSocket-Protocol header.
const Subprotocol = "web-transport"

// Dialer establishes outgoing WebTransport sessions over a plain WebSocket
// connection, for use against carriers that cannot negotiate HTTP/3.
type Dialer struct {
	// TLSConfig configures the underlying WebSocket dial when urlStr uses
	// the wss/https scheme. Leave nil to use Go's default root trust store.
	TLSConfig *tls.Config
	// Logger receives structured diagnostics; the zero value is a quiet
	// logger that discards everything.
	Logger zerolog.Logger
}

// Dial performs an ordinary WebSocket handshake against urlStr, offering the
// "web-transport" subprotocol, and wraps the resulting connection as a
// WebTransport Session. urlStr may use the ws/wss or http/https schemes
// interchangeably.
func (d *Dialer) Dial(ctx context.Context, urlStr string) (*Session, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	sessionURL := *u
	sessionURL.Scheme = "https"

	wsDialer := &websocket.Dialer{
		TLSClientConfig: d.TLSConfig,
		Subprotocols:    []string{Subprotocol},
	}

	wsURL := *u
	wsURL.Scheme = wsScheme(u.Scheme)

	conn, resp, err := wsDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if got := conn.Subprotocol(); got != Subprotocol {
		conn.Close()
		return nil, fmt.Errorf("webtransportws: server did not accept the %q subprotocol (got %q)", Subprotocol, got)
	}
	resp.Body.Close()

	log := d.Logger.With().Str("remote", urlStr).Logger()
	return newSession(conn, false, &sessionURL, log), nil
}

func wsScheme(scheme string) string {
	if scheme == "http" || scheme == "ws" {
		return "ws"
	}
	return "wss"
}

// Handler is called once for every WebTransport session accepted by a
// Server.
type Handler func(*Session)

// Server upgrades incoming HTTP requests that offer the "web-transport"
// WebSocket subprotocol into WebTransport sessions. It implements
// http.Handler so it can be mounted directly on an *http.ServeMux.
type Server struct {
	// Handler is invoked, in its own goroutine, for every accepted session.
	Handler Handler
	// Logger receives structured diagnostics; the zero value is a quiet
	// logger that discards everything.
	Logger zerolog.Logger

	upgrader websocket.Upgrader
}

// ServeHTTP implements http.Handler. Requests that do not offer the
// "web-transport" subprotocol are rejected with HTTP 400.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !offersSubprotocol(r) {
		http.Error(w, ErrSubprotocolRequired.Error(), http.StatusBadRequest)
		return
	}

	s.upgrader.Subprotocols = []string{Subprotocol}
	s.upgrader.CheckOrigin = func(*http.Request) bool { return true }

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	u := &url.URL{Scheme: "https", Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	log := s.Logger.With().Str("remote", r.RemoteAddr).Logger()
	sess := newSession(conn, true, u, log)

	if s.Handler == nil {
		sess.Close(0, "")
		return
	}
	go s.Handler(sess)
}

func offersSubprotocol(r *http.Request) bool {
	for _, p := range websocket.Subprotocols(r) {
		if p == Subprotocol {
			return true
		}
	}
	return false
}
