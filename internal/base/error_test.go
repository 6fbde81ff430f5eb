// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrNotFoundIsSentinel(t *testing.T) {
	wrapped := errors.Join(ErrNotFound)
	require.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestErrCorruptionFormatsReason(t *testing.T) {
	err := ErrCorruption("bad trailer")
	require.ErrorContains(t, err, "corruption")
	require.ErrorContains(t, err, "bad trailer")
}

func TestAssertionFailedfFormats(t *testing.T) {
	err := AssertionFailedf("impossible: %s == %s", "a", "b")
	require.ErrorContains(t, err, "impossible: a == b")
}
