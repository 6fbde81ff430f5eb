// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package ridgekv implements the Get-Smallest (GS) query engine of an LSM
// key-value store: given a target user key, it returns the smallest user
// key present in the database that is greater than or equal to target,
// honoring point deletions, range tombstones, and multi-versioning.
//
// The engine does not itself implement a memtable, an sstable format, or
// compaction; it consumes those through the collaborator interfaces in this
// file (SuperVersion and friends), the same way pebble's own read path
// consumes a *version and a set of flushables without owning either.
package ridgekv

import (
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/rangedel"
)

// ReadOptions mirrors the subset of read options the GS engine's
// preconditions care about. A real database's ReadOptions carries many more
// fields (iterate bounds, read tier, fill cache, …); only these three bound
// what GetSmallestAtOrAfter is willing to do, per §6 and §7.
type ReadOptions struct {
	// Timestamp must be nil: the engine has no user-timestamp dimension.
	Timestamp []byte
	// Snapshot must be nil: the engine only ever answers against the
	// latest state of the database.
	Snapshot *uint64
	// IgnoreRangeDeletions must be false: the engine always honors range
	// tombstones.
	IgnoreRangeDeletions bool
}

// MemtableLevel is the active-memtable collaborator: a single mutable,
// sorted run backed by an in-memory structure (a skiplist, in most LSM
// designs). It is always present and is folded first.
type MemtableLevel interface {
	// NewIterator returns a point cursor over the memtable's entries.
	NewIterator() (base.InternalIterator, error)
	// NewRangeTombstoneIterator returns a fragment iterator over the
	// memtable's range tombstones, already fragmented.
	NewRangeTombstoneIterator() (rangedel.FragmentIterator, error)
}

// ImmutableMemtableList is the collaborator exposing the queue of memtables
// that have been sealed (no longer accept writes) but not yet flushed to
// L0. Entries must be returned newest-first: the most recently sealed
// memtable is folded before older ones.
type ImmutableMemtableList interface {
	// Len returns the number of immutable memtables currently queued.
	Len() int
	// Get returns the point and range-tombstone iterators for the i'th
	// immutable memtable, 0 being the newest.
	Get(i int) (base.InternalIterator, rangedel.FragmentIterator, error)
}

// L0Files is the collaborator exposing L0, the unsorted run of files
// produced directly by memtable flushes. Because L0 files can overlap in
// key range, they are folded file-by-file, newest-first, rather than as a
// single merged run.
type L0Files interface {
	// Len returns the number of non-empty L0 files.
	Len() int
	// Get returns the point and range-tombstone iterators for the i'th L0
	// file, 0 being the newest.
	Get(i int) (base.InternalIterator, rangedel.FragmentIterator, error)
}

// SortedLevel is the collaborator exposing a single Lk (k>=1) level, seen by
// the GS engine as one already-sorted, already-merged run with no range
// tombstones of its own (range tombstones at Lk and below are assumed
// compacted away into the data itself by the time they reach this level,
// consistent with the engine's out-of-scope compaction boundary).
type SortedLevel interface {
	// NewIterator returns a point cursor over the level's merged run.
	NewIterator() (base.InternalIterator, error)
}

// SuperVersion is the pinned, consistent view of the database a query reads
// against: the active memtable, the immutable memtable queue, L0, and every
// sorted level L1..Lmax, all as of the moment the query began. It is
// acquired once per query and released exactly once, on every exit path.
type SuperVersion interface {
	Memtable() MemtableLevel
	ImmutableMemtables() ImmutableMemtableList
	L0() L0Files
	// NumSortedLevels returns the number of Lk (k>=1) levels, including
	// empty ones.
	NumSortedLevels() int
	// SortedLevel returns the k'th (k>=1) sorted level. It returns
	// (nil, false) if the level holds no data and should be skipped.
	SortedLevel(k int) (SortedLevel, bool)
	// Release returns the SuperVersion's resources. It is safe to call
	// exactly once per Acquire.
	Release()
}

// ColumnFamily is the minimal per-column-family collaborator the engine
// needs: a comparator and a way to pin a consistent read view.
type ColumnFamily interface {
	// Comparer returns the column family's user-key comparator.
	Comparer() *base.Comparer
	// Acquire pins and returns the current SuperVersion. The caller must
	// call Release on it exactly once.
	Acquire() SuperVersion
	// Logger returns the column family's diagnostics logger, or nil.
	Logger() base.Logger
}

// Engine runs Get-Smallest queries. It holds no state of its own beyond
// configuration; all per-query state lives in the GlobalContext the driver
// constructs for each call.
type Engine struct {
	// ValidateProgress enables the progress validator described in §2 and
	// §8 invariant 4. It is intended for test and debug builds; production
	// callers typically leave it false to avoid the per-iteration
	// bookkeeping cost.
	ValidateProgress bool
}

// GetSmallest is GetSmallestAtOrAfter with an empty target: it returns the
// smallest user key present in cf, or ErrNotFound.
func (e *Engine) GetSmallest(opts ReadOptions, cf ColumnFamily) ([]byte, error) {
	return e.GetSmallestAtOrAfter(opts, cf, nil)
}

// GetSmallestAtOrAfter returns the smallest user key in cf that is greater
// than or equal to target (nil target meaning "no lower bound"), accounting
// for point deletes, range tombstones, and multi-versioning. It returns
// base.ErrNotFound if no such key exists.
func (e *Engine) GetSmallestAtOrAfter(opts ReadOptions, cf ColumnFamily, target []byte) ([]byte, error) {
	if opts.Timestamp != nil {
		return nil, base.AssertionFailedf("GetSmallestAtOrAfter: read_options.timestamp must be nil")
	}
	if opts.Snapshot != nil {
		return nil, base.AssertionFailedf("GetSmallestAtOrAfter: read_options.snapshot must be nil")
	}
	if opts.IgnoreRangeDeletions {
		return nil, base.AssertionFailedf("GetSmallestAtOrAfter: read_options.ignore_range_deletions must be false")
	}

	comparer := cf.Comparer().EnsureDefaults()
	sv := cf.Acquire()
	defer sv.Release()

	gc := newGlobalContext(comparer.Compare, target, diagnostics{
		validateProgress: e.ValidateProgress,
		logger:           cf.Logger(),
	})

	if err := driveLevels(gc, sv); err != nil {
		return nil, err
	}

	if gc.csk == nil {
		return nil, base.ErrNotFound
	}
	return gc.csk, nil
}

// driveLevels is the Cross-Level Driver of §4.5: it folds the active
// memtable, then each immutable memtable newest-to-oldest, then each L0
// file newest-to-oldest, then each sorted level L1..Lmax, narrowing gc.csk
// at every step. Levels reporting no data are skipped.
func driveLevels(gc *GlobalContext, sv SuperVersion) error {
	mem := sv.Memtable()
	pointIter, err := mem.NewIterator()
	if err != nil {
		return err
	}
	rtIter, err := mem.NewRangeTombstoneIterator()
	if err != nil {
		return err
	}
	if err := foldLevel(gc, pointIter, rtIter); err != nil {
		return err
	}

	if imm := sv.ImmutableMemtables(); imm != nil {
		for i := 0; i < imm.Len(); i++ {
			pointIter, rtIter, err := imm.Get(i)
			if err != nil {
				return err
			}
			if err := foldLevel(gc, pointIter, rtIter); err != nil {
				return err
			}
		}
	}

	if l0 := sv.L0(); l0 != nil {
		for i := 0; i < l0.Len(); i++ {
			pointIter, rtIter, err := l0.Get(i)
			if err != nil {
				return err
			}
			if err := foldLevel(gc, pointIter, rtIter); err != nil {
				return err
			}
		}
	}

	for k := 1; k <= sv.NumSortedLevels(); k++ {
		level, ok := sv.SortedLevel(k)
		if !ok {
			continue
		}
		pointIter, err := level.NewIterator()
		if err != nil {
			return err
		}
		if err := foldLevel(gc, pointIter, rangedel.Null{}); err != nil {
			return err
		}
	}

	return nil
}

// foldLevel constructs a LevelContext bounded by gc's current CSK, runs
// ProcessLogLevel, and releases the level's iterators on every exit path.
func foldLevel(gc *GlobalContext, pointIter base.InternalIterator, rtIter rangedel.FragmentIterator) error {
	lc := newLevelContext(gc, pointIter, rtIter)
	defer func() {
		_ = lc.pvi.close()
		_ = lc.rti.close()
	}()
	return ProcessLogLevel(gc, lc)
}
