// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package ridgekv

import (
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/rangedel"
)

// rangeTombstoneIterator wraps a level's fragmented rangedel.FragmentIterator,
// clamping every emitted tombstone to an exclusive upper bound the same way
// pointValueIterator clamps point keys. Clamping a tombstone, unlike
// clamping a point key, can shorten it (truncate end_key down to the bound)
// rather than only hiding it.
type rangeTombstoneIterator struct {
	cmp        base.Compare
	iter       rangedel.FragmentIterator
	upperBound []byte // exclusive; nil means unbounded
	raw        *rangedel.Tombstone
}

func newRangeTombstoneIterator(cmp base.Compare, iter rangedel.FragmentIterator) *rangeTombstoneIterator {
	return &rangeTombstoneIterator{cmp: cmp, iter: iter}
}

// setUpperBound tightens the RTI's exclusive upper bound.
func (r *rangeTombstoneIterator) setUpperBound(userKey []byte) {
	r.upperBound = userKey
}

// clamped returns the current tombstone clamped to upperBound, or nil if the
// raw cursor is exhausted or the clamp empties the tombstone entirely
// (start_key >= upper_bound).
func (r *rangeTombstoneIterator) clamped() *rangedel.Tombstone {
	if r.raw == nil {
		return nil
	}
	t := r.raw.Clamp(r.cmp, r.upperBound)
	if t.Empty() {
		return nil
	}
	return &t
}

// seekToFirst positions the RTI at the level's first tombstone.
func (r *rangeTombstoneIterator) seekToFirst() *rangedel.Tombstone {
	r.raw = r.iter.First()
	return r.clamped()
}

// seek positions the RTI at the first tombstone whose end_key is greater
// than userKey (i.e. the first tombstone that contains or follows userKey).
func (r *rangeTombstoneIterator) seek(userKey []byte) *rangedel.Tombstone {
	r.raw = r.iter.SeekGE(userKey)
	return r.clamped()
}

// next advances to the following tombstone.
func (r *rangeTombstoneIterator) next() *rangedel.Tombstone {
	r.raw = r.iter.Next()
	return r.clamped()
}

// valid reports whether the RTI is positioned at a (possibly clamped)
// tombstone.
func (r *rangeTombstoneIterator) valid() bool {
	return r.clamped() != nil
}

// tombstone returns the current tombstone clamped to the upper bound. Valid
// must be true.
func (r *rangeTombstoneIterator) tombstone() rangedel.Tombstone {
	return *r.clamped()
}

// status returns any error accumulated by the underlying cursor.
func (r *rangeTombstoneIterator) status() error { return r.iter.Error() }

// close releases the underlying cursor.
func (r *rangeTombstoneIterator) close() error { return r.iter.Close() }
