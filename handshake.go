// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransport

import (
	"context"
	"errors"

	"github.com/quic-go/quic-go"
	"golang.org/x/sync/errgroup"

	"github.com/loopline-io/webtransport/h3"
)

// exchangeSettings opens this endpoint's control stream and writes its
// SETTINGS, while concurrently accepting the peer's control stream and
// reading theirs. Both halves run concurrently via errgroup since either
// side may otherwise block waiting on the other to read/write first. It
// returns the number of concurrent sessions the peer advertised support
// for, via SupportsWebtransport.
func exchangeSettings(ctx context.Context, conn quic.Connection, maxSessions uint64) (uint64, error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		str, err := conn.OpenUniStream()
		if err != nil {
			return err
		}
		return h3.WriteControlStreamSettings(str, h3.EnableWebtransport(maxSessions))
	})

	var peerSettings h3.SettingsMap
	g.Go(func() error {
		// The peer's control stream is not necessarily the first
		// unidirectional stream it opens; grease streams and the QPACK
		// encoder/decoder pair may arrive ahead of it. Hold and drain those,
		// and keep accepting until the control stream shows up.
		for {
			str, err := conn.AcceptUniStream(ctx)
			if err != nil {
				return err
			}
			hdr, grease, err := h3.ReadStreamHeader(str)
			if err != nil {
				if errors.Is(err, h3.ErrUnknownStreamType) {
					go drain(str)
					continue
				}
				return err
			}
			if grease || hdr.Type != h3.STREAM_CONTROL {
				go drain(str)
				continue
			}

			f, err := h3.ReadFrame(str)
			if err != nil {
				return err
			}
			if f.Type != h3.FRAME_SETTINGS {
				return &h3.ErrUnexpectedFrame{Got: f.Type, Expected: h3.FRAME_SETTINGS}
			}
			peerSettings = make(h3.SettingsMap)
			return peerSettings.FromFrame(f)
		}
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	max := peerSettings.SupportsWebtransport()
	if max == 0 {
		return 0, h3.ErrWebtransportUnsupported
	}
	return max, nil
}
