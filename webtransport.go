// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webtransport provides a WebTransport-over-HTTP/3 client and server
// implementation in Go, built on top of the QUIC carrier.
//
// This package depends on the [quic-go](https://github.com/quic-go/quic-go)
// package.
package webtransport

import (
	"context"
	"net/url"
	"slices"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"
)

// Handler is called once for every WebTransport session a peer attempts to
// establish. Exactly one of Request.Ok or Request.Close must be called.
type Handler func(*Request)

// A Server defines parameters for running a WebTransport server.
type Server struct {
	// ListenAddr sets an address to bind server to, e.g. ":4433"
	ListenAddr string
	// TLSCert defines a path to, or byte array containing, a certificate
	// (CRT file)
	TLSCert CertFile
	// TLSKey defines a path to, or byte array containing, the certificate's
	// private key (KEY file)
	TLSKey CertFile
	// AllowedOrigins represents list of allowed origins to connect from. A
	// nil slice allows all origins.
	AllowedOrigins []string
	// MaxSessions bounds the number of concurrent WebTransport sessions
	// advertised to peers over WEBTRANSPORT_MAX_SESSIONS. Defaults to 100.
	MaxSessions uint64
	// Handler is invoked for every incoming CONNECT request.
	Handler Handler
	// QuicConfig carries additional configuration parameters for the QUIC
	// listener.
	QuicConfig *QuicConfig
	// Logger receives structured diagnostics; the zero value is a quiet
	// logger that discards everything.
	Logger zerolog.Logger
}

// QuicConfig is a wrapper for quic.Config.
type QuicConfig quic.Config

// Run starts a WebTransport server and blocks while it's running. Cancel
// the supplied Context to stop the server.
func (s *Server) Run(ctx context.Context) error {
	if s.MaxSessions == 0 {
		s.MaxSessions = 100
	}
	if s.QuicConfig == nil {
		s.QuicConfig = &QuicConfig{}
	}
	s.QuicConfig.EnableDatagrams = true

	tlsConfig, err := s.makeTLSConfig()
	if err != nil {
		return err
	}

	listener, err := quic.ListenAddr(s.ListenAddr, tlsConfig, (*quic.Config)(s.QuicConfig))
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			return err
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection performs the SETTINGS exchange for a freshly accepted
// QUIC connection, then repeatedly accepts bidirectional streams, routing
// each new CONNECT request to Handler and every established session's data
// stream to its connMux.
func (s *Server) handleConnection(ctx context.Context, conn quic.Connection) {
	log := s.Logger.With().Str("remote", conn.RemoteAddr().String()).Logger()

	peerMax, err := exchangeSettings(ctx, conn, s.MaxSessions)
	if err != nil {
		log.Debug().Err(err).Msg("settings exchange failed")
		conn.CloseWithError(0, "")
		return
	}
	log.Debug().Uint64("peer_max_sessions", peerMax).Msg("settings exchange complete")

	mux := newConnMux(conn, log)
	mux.onConnect = func(req *Request) {
		if !s.validateOrigin(req.Header("origin")) {
			req.Close(403)
			return
		}
		if s.Handler == nil {
			req.Close(404)
			return
		}
		s.Handler(req)
	}
	mux.run(ctx)
}

// validateOrigin checks if the given origin is allowed to access the
// WebTransport server. A nil AllowedOrigins slice allows all origins.
func (s *Server) validateOrigin(origin string) bool {
	if s.AllowedOrigins == nil {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return slices.Contains(s.AllowedOrigins, u.Host)
}
