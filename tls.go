// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"crypto/tls"
)

// http3Protos lists the ALPN identifiers negotiated on every QUIC
// connection, the ratified token first and the draft versions still seen in
// deployment after it.
var http3Protos = []string{"h3", "h3-32", "h3-31", "h3-30", "h3-29"}

// A CertFile points at TLS material either on disk (Path) or already in
// memory (Data). Path wins when both are set.
type CertFile struct {
	Path string
	Data []byte
}

// loadKeyPair resolves a certificate/key pair from whichever form the two
// CertFiles carry.
func loadKeyPair(cert, key CertFile) (tls.Certificate, error) {
	if cert.Path != "" && key.Path != "" {
		return tls.LoadX509KeyPair(cert.Path, key.Path)
	}
	return tls.X509KeyPair(cert.Data, key.Data)
}

// makeTLSConfig assembles the server's TLS configuration: the configured
// certificate plus the HTTP/3 ALPN list.
func (s *Server) makeTLSConfig() (*tls.Config, error) {
	cert, err := loadKeyPair(s.TLSCert, s.TLSKey)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   http3Protos,
	}, nil
}

// clientTLSConfig fills in the ALPN protocols a Dialer needs on top of
// whatever the caller configured, without overwriting a caller-supplied
// TLSConfig's certificates, root pool, or InsecureSkipVerify.
func clientTLSConfig(base *tls.Config) *tls.Config {
	cfg := base.Clone()
	if cfg == nil {
		cfg = &tls.Config{}
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = http3Protos
	}
	return cfg
}
