// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeTrailerRoundTrip(t *testing.T) {
	trailer := MakeTrailer(42, InternalKeyKindSet)
	require.Equal(t, SeqNum(42), trailer.SeqNum())
	require.Equal(t, InternalKeyKindSet, trailer.Kind())
}

func TestParseInternalKey(t *testing.T) {
	ik, err := ParseInternalKey("foo#7,SET")
	require.NoError(t, err)
	require.Equal(t, []byte("foo"), ik.UserKey)
	require.Equal(t, SeqNum(7), ik.SeqNum())
	require.Equal(t, InternalKeyKindSet, ik.Kind())

	_, err = ParseInternalKey("nosep")
	require.Error(t, err)

	_, err = ParseInternalKey("foo#7")
	require.Error(t, err)

	_, err = ParseInternalKey("foo#7,BOGUS")
	require.Error(t, err)
}

func TestInternalCompareOrdersByUserKeyThenSeqDescending(t *testing.T) {
	a := MakeInternalKey([]byte("a"), 5, InternalKeyKindSet)
	b := MakeInternalKey([]byte("b"), 1, InternalKeyKindSet)
	require.True(t, InternalCompare(bytes.Compare, a, b) < 0)

	newer := MakeInternalKey([]byte("a"), 9, InternalKeyKindSet)
	older := MakeInternalKey([]byte("a"), 3, InternalKeyKindSet)
	require.True(t, InternalCompare(bytes.Compare, newer, older) < 0)
	require.True(t, InternalCompare(bytes.Compare, older, newer) > 0)
	require.Equal(t, 0, InternalCompare(bytes.Compare, newer, newer))
}

func TestMakeSearchKeySortsBeforeAnyRealKey(t *testing.T) {
	search := MakeSearchKey([]byte("a"))
	real := MakeInternalKey([]byte("a"), 100, InternalKeyKindSet)
	require.True(t, InternalCompare(bytes.Compare, search, real) < 0)
}

func TestKindCategory(t *testing.T) {
	require.Equal(t, Value, InternalKeyKindSet.Category())
	require.Equal(t, MergeValue, InternalKeyKindMerge.Category())
	require.Equal(t, DelKey, InternalKeyKindDelete.Category())
	require.Equal(t, DelKey, InternalKeyKindSingleDelete.Category())
	require.Equal(t, Other, InternalKeyKindRangeDelete.Category())
	require.Equal(t, Other, InternalKeyKindLogData.Category())
}
