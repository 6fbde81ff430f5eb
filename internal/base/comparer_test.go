// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultsOnNil(t *testing.T) {
	var c *Comparer
	require.Same(t, DefaultComparer, c.EnsureDefaults())
}

func TestEnsureDefaultsFillsMissingFields(t *testing.T) {
	c := &Comparer{Compare: DefaultComparer.Compare}
	filled := c.EnsureDefaults()
	require.NotNil(t, filled.Equal)
	require.NotNil(t, filled.FormatKey)
	require.True(t, filled.Equal([]byte("a"), []byte("a")))
	require.False(t, filled.Equal([]byte("a"), []byte("b")))
}

func TestEnsureDefaultsNoopWhenComplete(t *testing.T) {
	require.Same(t, DefaultComparer, DefaultComparer.EnsureDefaults())
}

func TestMinUserKey(t *testing.T) {
	cmp := DefaultComparer.Compare
	require.Equal(t, []byte("a"), MinUserKey(cmp, []byte("a"), []byte("b")))
	require.Equal(t, []byte("a"), MinUserKey(cmp, []byte("b"), []byte("a")))
	require.Equal(t, []byte("a"), MinUserKey(cmp, []byte("a"), nil))
	require.Equal(t, []byte("a"), MinUserKey(cmp, nil, []byte("a")))
	require.Nil(t, MinUserKey(cmp, nil, nil))
}

func TestFormatBytesEscapesNonPrintable(t *testing.T) {
	require.Equal(t, "ab", fmt.Sprintf("%s", FormatBytes([]byte("ab"))))
	require.Equal(t, `a\x00b`, fmt.Sprintf("%s", FormatBytes([]byte{'a', 0, 'b'})))
}
