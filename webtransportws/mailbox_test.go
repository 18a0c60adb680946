// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webtransportws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMailboxPreservesOrder(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	m := newMailbox[int](done)
	for i := 0; i < 100; i++ {
		m.send(i)
	}
	for i := 0; i < 100; i++ {
		require.Equal(t, i, <-m.recv())
	}
}

func TestMailboxSendNeverBlocks(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	m := newMailbox[int](done)
	finished := make(chan struct{})
	go func() {
		// Far more sends than any channel buffer; no receiver yet.
		for i := 0; i < 10000; i++ {
			m.send(i)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("send blocked without a receiver")
	}
	require.Equal(t, 0, <-m.recv())
}

func TestMailboxCloseDeliversQueued(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	m := newMailbox[int](done)
	m.send(1)
	m.send(2)
	m.close()

	require.Equal(t, 1, <-m.recv())
	require.Equal(t, 2, <-m.recv())
	_, ok := <-m.recv()
	require.False(t, ok)
}

func TestMailboxDoneDropsSends(t *testing.T) {
	done := make(chan struct{})
	m := newMailbox[int](done)
	close(done)

	// Must return promptly instead of blocking on the stopped pump.
	finished := make(chan struct{})
	go func() {
		m.send(1)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("send blocked after done fired")
	}
}
