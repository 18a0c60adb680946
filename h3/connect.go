// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"io"
	"net/url"
	"strconv"

	"github.com/loopline-io/webtransport/qpack"
)

// draftHeader is sent on every successful CONNECT response so that clients
// speaking an older WebTransport draft can recognize this server supports
// the same wire format they do.
const draftHeader = "sec-webtransport-http3-draft"
const draftValue = "draft02"

// ConnectRequest is the extended-CONNECT request that establishes a
// WebTransport session on an HTTP/3 request stream, see
// https://www.ietf.org/archive/id/draft-ietf-webtrans-http3-02.html#section-3.
type ConnectRequest struct {
	Authority string
	Path      string
}

// URL reconstructs the https URL the client asked to connect to.
func (r ConnectRequest) URL() *url.URL {
	return &url.URL{Scheme: "https", Host: r.Authority, Path: r.Path}
}

// Encode serializes the CONNECT request's header block.
func (r ConnectRequest) Encode() []byte {
	return qpack.Encode(qpack.Headers{
		":method":    "CONNECT",
		":scheme":    "https",
		":authority": r.Authority,
		":path":      r.Path,
		":protocol":  "webtransport",
	})
}

// DecodeConnectRequest parses and validates a CONNECT request header block.
func DecodeConnectRequest(data []byte) (ConnectRequest, error) {
	req, _, err := DecodeConnectRequestFull(data)
	return req, err
}

// DecodeConnectRequestFull is DecodeConnectRequest, additionally returning
// the full decoded header set so callers can inspect non-pseudo headers
// such as "origin".
func DecodeConnectRequestFull(data []byte) (ConnectRequest, qpack.Headers, error) {
	h, err := qpack.Decode(data)
	if err != nil {
		return ConnectRequest{}, nil, err
	}
	req, err := connectRequestFromHeaders(h)
	return req, h, err
}

func connectRequestFromHeaders(h qpack.Headers) (ConnectRequest, error) {
	if method, _ := h.Get(":method"); method != "CONNECT" {
		return ConnectRequest{}, ErrWrongMethod
	}
	if scheme, _ := h.Get(":scheme"); scheme != "https" {
		return ConnectRequest{}, ErrWrongScheme
	}
	if protocol, _ := h.Get(":protocol"); protocol != "webtransport" {
		return ConnectRequest{}, ErrWrongProtocol
	}
	authority, ok := h.Get(":authority")
	if !ok || authority == "" {
		return ConnectRequest{}, ErrWrongAuthority
	}
	path, ok := h.Get(":path")
	if !ok || path == "" {
		return ConnectRequest{}, ErrWrongPath
	}

	return ConnectRequest{Authority: authority, Path: path}, nil
}

// ReadConnectRequest reads the HEADERS frame carrying a CONNECT request from
// a freshly opened request stream.
func ReadConnectRequest(r io.Reader) (ConnectRequest, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return ConnectRequest{}, err
	}
	if f.Type != FRAME_HEADERS {
		return ConnectRequest{}, &ErrUnexpectedFrame{Got: f.Type, Expected: FRAME_HEADERS}
	}
	return DecodeConnectRequest(f.Data)
}

// WriteConnectRequest writes req as a HEADERS frame to w.
func WriteConnectRequest(w io.Writer, req ConnectRequest) error {
	data := req.Encode()
	f := Frame{Type: FRAME_HEADERS, Length: uint64(len(data)), Data: data}
	_, err := f.Write(w)
	return err
}

// ConnectResponse is the server's answer to a ConnectRequest.
type ConnectResponse struct {
	Status int
}

// Encode serializes the CONNECT response's header block.
func (r ConnectResponse) Encode() []byte {
	return qpack.Encode(qpack.Headers{
		":status":   strconv.Itoa(r.Status),
		draftHeader: draftValue,
	})
}

// DecodeConnectResponse parses a CONNECT response header block.
func DecodeConnectResponse(data []byte) (ConnectResponse, error) {
	h, err := qpack.Decode(data)
	if err != nil {
		return ConnectResponse{}, err
	}

	statusStr, ok := h.Get(":status")
	if !ok {
		return ConnectResponse{}, ErrInvalidStatus
	}
	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return ConnectResponse{}, ErrInvalidStatus
	}

	return ConnectResponse{Status: status}, nil
}

// ReadConnectResponse reads and validates the HEADERS frame carrying a
// CONNECT response, returning a *StatusError if the status was not 2xx.
func ReadConnectResponse(r io.Reader) (ConnectResponse, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return ConnectResponse{}, err
	}
	if f.Type != FRAME_HEADERS {
		return ConnectResponse{}, &ErrUnexpectedFrame{Got: f.Type, Expected: FRAME_HEADERS}
	}
	resp, err := DecodeConnectResponse(f.Data)
	if err != nil {
		return ConnectResponse{}, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return resp, &StatusError{Status: resp.Status}
	}
	return resp, nil
}

// WriteConnectResponse writes resp as a HEADERS frame to w.
func WriteConnectResponse(w io.Writer, resp ConnectResponse) error {
	data := resp.Encode()
	f := Frame{Type: FRAME_HEADERS, Length: uint64(len(data)), Data: data}
	_, err := f.Write(w)
	return err
}
