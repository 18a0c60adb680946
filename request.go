// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"net/http"
	"net/url"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"github.com/loopline-io/webtransport/h3"
)

// Request is an incoming CONNECT request offering to establish a
// WebTransport session. Exactly one of Ok or Close must be called.
type Request struct {
	connect h3.ConnectRequest
	header  http.Header
	stream  quic.Stream
	conn    quic.Connection
	mux     *connMux
	log     zerolog.Logger

	resolved bool
}

// URL returns the https URL the client asked to connect to.
func (r *Request) URL() *url.URL {
	return r.connect.URL()
}

// RemoteAddr returns the network address of the client.
func (r *Request) RemoteAddr() string {
	return r.conn.RemoteAddr().String()
}

// Header returns the value of the named header sent with the CONNECT
// request. Only the "origin" header is retained; any other name returns "".
func (r *Request) Header(name string) string {
	return r.header.Get(name)
}

// Ok accepts the session, responding with a 200 status, and returns the
// established Session.
func (r *Request) Ok() (*Session, error) {
	if r.resolved {
		return nil, errRequestAlreadyResolved
	}
	r.resolved = true

	if err := h3.WriteConnectResponse(r.stream, h3.ConnectResponse{Status: 200}); err != nil {
		return nil, err
	}

	sess := newSession(r.conn, r.stream, r.mux, r.connect.URL(), r.log)
	r.mux.register(sess)
	return sess, nil
}

// Close rejects the session, responding with the given HTTP status code.
func (r *Request) Close(status int) error {
	if r.resolved {
		return errRequestAlreadyResolved
	}
	r.resolved = true

	err := h3.WriteConnectResponse(r.stream, h3.ConnectResponse{Status: status})
	r.stream.Close()
	return err
}

// originHeader wraps an "origin" header value in an http.Header so Request
// can expose header lookups through the familiar http.Header.Get API
// without carrying the whole extended-CONNECT header set around.
func originHeader(origin string) http.Header {
	h := http.Header{}
	if origin != "" {
		h.Set("origin", origin)
	}
	return h
}
