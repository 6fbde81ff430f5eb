// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package memstore is a minimal in-memory stand-in for the collaborators the
// GS query engine expects out of the surrounding database (SuperVersion,
// its memtable, immutable memtable list, L0 files, and sorted levels). It
// exists to let the engine be exercised and tested without the real
// memtable/sstable/compaction machinery the core spec declares out of
// scope; it is the role mem_table.go and the leveldb memdb package play for
// pebble's own tests, reduced to exactly what ridgekv.SuperVersion needs.
package memstore

import (
	"sort"

	"github.com/ridgekv/ridgekv"
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/rangedel"
)

// Run is a single sorted-run fixture: a set of internal KVs (kept sorted by
// base.InternalCompare) plus, optionally, a set of range tombstones that
// are fragmented each time an iterator over them is built. It backs the active memtable, each
// immutable memtable, each L0 file, and every Lk level in this package's
// SuperVersion.
type Run struct {
	cmp        base.Compare
	kvs        []base.InternalKV
	tombstones []rangedel.Tombstone
}

// NewRun returns an empty Run ordered by cmp.
func NewRun(cmp base.Compare) *Run {
	return &Run{cmp: cmp}
}

// Add inserts a point entry, keeping kvs in internal-key order.
func (r *Run) Add(userKey []byte, seqNum base.SeqNum, kind base.InternalKeyKind, value []byte) *Run {
	kv := base.InternalKV{K: base.MakeInternalKey(userKey, seqNum, kind), V: value}
	idx := sort.Search(len(r.kvs), func(i int) bool {
		return base.InternalCompare(r.cmp, r.kvs[i].K, kv.K) >= 0
	})
	r.kvs = append(r.kvs, base.InternalKV{})
	copy(r.kvs[idx+1:], r.kvs[idx:])
	r.kvs[idx] = kv
	return r
}

// DeleteRange records a raw (possibly overlapping) range tombstone. It is
// fragmented against every other tombstone added to this Run each time a
// range-tombstone iterator is requested.
func (r *Run) DeleteRange(start, end []byte, seqNum base.SeqNum) *Run {
	r.tombstones = append(r.tombstones, rangedel.Tombstone{Start: start, End: end, SeqNum: seqNum})
	return r
}

// Empty reports whether the run carries no point entries and no
// tombstones, the condition under which the driver skips a level entirely.
func (r *Run) Empty() bool {
	return len(r.kvs) == 0 && len(r.tombstones) == 0
}

func (r *Run) pointIter() base.InternalIterator {
	return base.NewFakeIter(r.kvs)
}

func (r *Run) rangeTombstoneIter() rangedel.FragmentIterator {
	return rangedel.NewSliceIter(r.cmp, rangedel.Fragment(r.cmp, r.tombstones))
}

// Store is a complete in-memory database fixture: an active Run, a
// newest-first queue of immutable Runs, a newest-first list of L0 Runs, and
// a slice of Lk (k>=1) Runs. It implements ridgekv.ColumnFamily directly,
// acquiring itself as its own (trivially released) SuperVersion.
type Store struct {
	comparer *base.Comparer
	logger   base.Logger

	Active     *Run
	Immutables []*Run // newest first
	L0         []*Run // newest first
	Levels     []*Run // index 0 is L1
}

// New returns an empty Store using comparer (or base.DefaultComparer if
// nil).
func New(comparer *base.Comparer) *Store {
	comparer = comparer.EnsureDefaults()
	return &Store{
		comparer: comparer,
		logger:   base.NoopLogger{},
		Active:   NewRun(comparer.Compare),
	}
}

// SetLogger installs the diagnostics logger returned to the engine.
func (s *Store) SetLogger(l base.Logger) { s.logger = l }

// Comparer implements ridgekv.ColumnFamily.
func (s *Store) Comparer() *base.Comparer { return s.comparer }

// Logger implements ridgekv.ColumnFamily.
func (s *Store) Logger() base.Logger { return s.logger }

// Acquire implements ridgekv.ColumnFamily. Because Store has no concurrent
// mutators in this package, the returned SuperVersion is a thin wrapper
// reading s directly; Release is a no-op.
func (s *Store) Acquire() ridgekv.SuperVersion { return &superVersion{Store: s} }

// superVersion adapts *Store to ridgekv.SuperVersion without exposing
// Store's own mutators (Add/DeleteRange) through the engine-facing
// interface. It embeds *Store by pointer (rather than converting Store's
// underlying type directly) so that the L0 method declared here can
// coexist with Store's own L0 field.
type superVersion struct{ *Store }

var _ ridgekv.SuperVersion = (*superVersion)(nil)

func (sv *superVersion) Memtable() ridgekv.MemtableLevel { return (*memtableLevel)(sv.Active) }

func (sv *superVersion) ImmutableMemtables() ridgekv.ImmutableMemtableList {
	return runList(sv.Immutables)
}

func (sv *superVersion) L0() ridgekv.L0Files { return runList(sv.Store.L0) }

func (sv *superVersion) NumSortedLevels() int { return len(sv.Levels) }

func (sv *superVersion) SortedLevel(k int) (ridgekv.SortedLevel, bool) {
	if k < 1 || k > len(sv.Levels) {
		return nil, false
	}
	run := sv.Levels[k-1]
	if run.Empty() {
		return nil, false
	}
	return (*sortedLevel)(run), true
}

func (sv *superVersion) Release() {}

// memtableLevel adapts *Run to ridgekv.MemtableLevel.
type memtableLevel Run

func (m *memtableLevel) NewIterator() (base.InternalIterator, error) {
	return (*Run)(m).pointIter(), nil
}

func (m *memtableLevel) NewRangeTombstoneIterator() (rangedel.FragmentIterator, error) {
	return (*Run)(m).rangeTombstoneIter(), nil
}

// sortedLevel adapts *Run to ridgekv.SortedLevel.
type sortedLevel Run

func (l *sortedLevel) NewIterator() (base.InternalIterator, error) {
	return (*Run)(l).pointIter(), nil
}

// runList adapts a newest-first []*Run to ridgekv.ImmutableMemtableList and
// ridgekv.L0Files, both of which share the same (Len, Get) shape.
type runList []*Run

func (l runList) Len() int { return len(l) }

func (l runList) Get(i int) (base.InternalIterator, rangedel.FragmentIterator, error) {
	r := l[i]
	return r.pointIter(), r.rangeTombstoneIter(), nil
}
