// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package rangedel

// FragmentIterator is the raw per-level cursor the Range-Tombstone Iterator
// wraps. Implementations must already be fragmented: within one level's
// FragmentIterator, tombstones are non-overlapping and returned in
// ascending Start order. Fragmenting raw, possibly-overlapping tombstones
// into this form is the responsibility of the memtable / sstable writer
// collaborators and is outside the scope of the GS query engine.
type FragmentIterator interface {
	// SeekGE moves to the first tombstone whose End key is greater than
	// key (equivalently, the first tombstone that contains or is past
	// key), returning it, or nil if none exists.
	SeekGE(key []byte) *Tombstone

	// First moves to the first tombstone in the level.
	First() *Tombstone

	// Next moves to the tombstone immediately following the current one.
	Next() *Tombstone

	// Error returns any error accumulated by the iterator.
	Error() error

	// Close releases the iterator's resources.
	Close() error
}

// Null is a FragmentIterator that is always invalid. It models the "no
// range tombstones in this level" collaborator: the Lk (k>=1) sorted runs,
// which this engine assumes carry no range tombstones of their own.
type Null struct{}

var _ FragmentIterator = Null{}

// SeekGE implements FragmentIterator.
func (Null) SeekGE(key []byte) *Tombstone { return nil }

// First implements FragmentIterator.
func (Null) First() *Tombstone { return nil }

// Next implements FragmentIterator.
func (Null) Next() *Tombstone { return nil }

// Error implements FragmentIterator.
func (Null) Error() error { return nil }

// Close implements FragmentIterator.
func (Null) Close() error { return nil }
