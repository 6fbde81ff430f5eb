// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package ridgekv

import (
	"testing"

	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/rangedel"
	"github.com/stretchr/testify/require"
)

// runLevel is a small test helper that folds one level, given raw fixtures,
// against gc, returning the resulting LevelContext.
func runLevel(t *testing.T, gc *GlobalContext, kvs []base.InternalKV, tombstones []rangedel.Tombstone) *LevelContext {
	t.Helper()
	pointIter := base.NewFakeIter(kvs)
	var rtIter rangedel.FragmentIterator = rangedel.Null{}
	if tombstones != nil {
		rtIter = rangedel.NewSliceIter(gc.cmp, tombstones)
	}
	lc := newLevelContext(gc, pointIter, rtIter)
	require.NoError(t, ProcessLogLevel(gc, lc))
	return lc
}

// TestFoldNewerPutDefeatsOlderRangeTombstone exercises scenario 4 of the
// engine's testable properties directly at the fold layer: a range
// tombstone at a level with its own RTI (something the production
// SortedLevel collaborator never presents for L1+, per §6, but which the
// fold algorithm itself must still handle correctly) that is older than a
// live put at a newer level must not shadow that put.
func TestFoldNewerPutDefeatsOlderRangeTombstone(t *testing.T) {
	gc := newGlobalContext(base.DefaultComparer.Compare, nil, diagnostics{validateProgress: true})

	// Newer level: a live put at "c", seq 10.
	runLevel(t, gc, base.FakeKVs("c#10,SET:cur"), nil)
	require.Equal(t, []byte("c"), gc.CSK())

	// Older level: RT [a, z) @ seq 5, plus puts at a, b, c all at seq 3.
	runLevel(t, gc, base.FakeKVs("a#3,SET:av", "b#3,SET:bv", "c#3,SET:cold"),
		[]rangedel.Tombstone{{Start: []byte("a"), End: []byte("z"), SeqNum: 5}})

	require.Equal(t, []byte("c"), gc.CSK())
}

// TestFoldPointDeleteContributesToGDL checks that a DEL_KEY entry at the
// newest level, with the validator enabled, both withholds a CSK at that
// user key and leaves a point delete in the GDL for the next level to
// observe.
func TestFoldPointDeleteContributesToGDL(t *testing.T) {
	gc := newGlobalContext(base.DefaultComparer.Compare, nil, diagnostics{validateProgress: true})

	runLevel(t, gc, base.FakeKVs("b#5,DEL"), nil)
	require.Nil(t, gc.CSK())
	require.Equal(t, 1, gc.gdl.Len())
	require.Equal(t, []byte("b"), gc.gdl.Elements()[0].Start)

	runLevel(t, gc, base.FakeKVs("b#3,SET:x", "c#3,SET:y"), nil)
	require.Equal(t, []byte("c"), gc.CSK())
}
