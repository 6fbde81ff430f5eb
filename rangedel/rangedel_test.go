// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package rangedel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTombstoneClamp(t *testing.T) {
	t1 := Tombstone{Start: []byte("b"), End: []byte("f"), SeqNum: 3}

	require.Equal(t, t1, t1.Clamp(bytes.Compare, nil))

	clamped := t1.Clamp(bytes.Compare, []byte("d"))
	require.Equal(t, Tombstone{Start: []byte("b"), End: []byte("d"), SeqNum: 3}, clamped)

	require.True(t, t1.Clamp(bytes.Compare, []byte("b")).Empty())
	require.True(t, t1.Clamp(bytes.Compare, []byte("a")).Empty())

	// An upper bound past End leaves the tombstone untouched.
	require.Equal(t, t1, t1.Clamp(bytes.Compare, []byte("z")))
}

func TestFragmentSplitsAtBoundaries(t *testing.T) {
	in := []Tombstone{
		{Start: []byte("a"), End: []byte("e"), SeqNum: 3},
		{Start: []byte("c"), End: []byte("g"), SeqNum: 5},
	}
	out := Fragment(bytes.Compare, in)
	// [a, c) keeps the lone seq-3 tombstone; [c, e) and [e, g) both carry
	// seq 5 (the higher of the two inputs once they overlap) and abut, so
	// they coalesce back into one [c, g) fragment.
	require.Equal(t, []Tombstone{
		{Start: []byte("a"), End: []byte("c"), SeqNum: 3},
		{Start: []byte("c"), End: []byte("g"), SeqNum: 5},
	}, out)
}

func TestFragmentCoalescesEqualSeqRuns(t *testing.T) {
	in := []Tombstone{
		{Start: []byte("a"), End: []byte("c"), SeqNum: 4},
		{Start: []byte("c"), End: []byte("e"), SeqNum: 4},
	}
	out := Fragment(bytes.Compare, in)
	require.Equal(t, []Tombstone{
		{Start: []byte("a"), End: []byte("e"), SeqNum: 4},
	}, out)
}

func TestSliceIterSeekGE(t *testing.T) {
	spans := []Tombstone{
		{Start: []byte("b"), End: []byte("d"), SeqNum: 1},
		{Start: []byte("f"), End: []byte("h"), SeqNum: 1},
	}
	iter := NewSliceIter(bytes.Compare, spans)

	require.Equal(t, &spans[0], iter.SeekGE([]byte("a")))
	require.Equal(t, &spans[1], iter.SeekGE([]byte("e")))
	require.Nil(t, iter.SeekGE([]byte("z")))

	iter2 := NewSliceIter(bytes.Compare, spans)
	require.Equal(t, &spans[0], iter2.First())
	require.Equal(t, &spans[1], iter2.Next())
	require.Nil(t, iter2.Next())
}

func TestNullIsAlwaysInvalid(t *testing.T) {
	var n Null
	require.Nil(t, n.First())
	require.Nil(t, n.SeekGE([]byte("x")))
	require.Nil(t, n.Next())
	require.NoError(t, n.Error())
	require.NoError(t, n.Close())
}
