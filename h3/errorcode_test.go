// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package h3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodeRoundTrip(t *testing.T) {
	for _, code := range []uint64{0, 1, 29, 30, 1000, 0xffffffff} {
		wire := ErrorToHTTP3(code)
		got, err := ErrorFromHTTP3(wire)
		require.NoError(t, err)
		require.Equal(t, code, got)
	}
}

func TestErrorFromHTTP3RejectsOutOfRange(t *testing.T) {
	_, err := ErrorFromHTTP3(webtransportErrorFirst - 1)
	require.ErrorIs(t, err, ErrNotWebtransportError)

	_, err = ErrorFromHTTP3(webtransportErrorLast + 1)
	require.ErrorIs(t, err, ErrNotWebtransportError)
}

func TestErrorFromHTTP3RejectsGreaseCodepoints(t *testing.T) {
	// The smallest grease codepoint (v = 0x21 + N*0x1f) at or above the
	// reserved range's lower bound, still numerically inside the range.
	const (
		greaseBase   = 0x21
		greasePeriod = 0x1f
	)
	remainder := (webtransportErrorFirst - greaseBase) % greasePeriod
	grease := webtransportErrorFirst
	if remainder != 0 {
		grease += greasePeriod - remainder
	}
	require.True(t, IsGreaseValue(grease))
	require.LessOrEqual(t, grease, webtransportErrorLast)

	_, err := ErrorFromHTTP3(grease)
	require.ErrorIs(t, err, ErrNotWebtransportError)
}
