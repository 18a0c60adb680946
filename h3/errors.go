// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"errors"
	"strconv"
)

// Errors returned while parsing the extended-CONNECT handshake.
var (
	ErrInvalidMethod           = errors.New("h3: invalid :method pseudo-header")
	ErrInvalidURL              = errors.New("h3: invalid request URL")
	ErrInvalidStatus           = errors.New("h3: invalid or missing :status pseudo-header")
	ErrWrongMethod             = errors.New("h3: expected :method=CONNECT")
	ErrWrongScheme             = errors.New("h3: expected :scheme=https")
	ErrWrongAuthority          = errors.New("h3: missing or empty :authority pseudo-header")
	ErrWrongProtocol           = errors.New("h3: expected :protocol=webtransport")
	ErrWrongPath               = errors.New("h3: missing or empty :path pseudo-header")
	ErrWrongStatus             = errors.New("h3: :status did not indicate success")
	ErrWebtransportUnsupported = errors.New("h3: peer does not support WebTransport")
)

// StatusError wraps a non-2xx CONNECT response status.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "h3: CONNECT rejected with status " + strconv.Itoa(e.Status)
}
