// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package dellist implements the Global Deletion List (GDL): the ordered,
// coalesced set of deletions accumulated across levels already processed by
// the GS query fold. It is the one piece of mutable state the fold carries
// from level to level, and its invariants (strictly ascending, no two
// elements overlapping or touching) are what let ProcessLogLevel answer "is
// this key already deleted by a newer level" in O(log n) per probe.
//
// The list has a single owner for the duration of one query; there is no
// concurrent access, so it is implemented as a plain sorted slice rather
// than anything fancier.
package dellist

import (
	"fmt"
	"sort"

	"github.com/ridgekv/ridgekv/internal/base"
)

// DelElement is either a point delete ({Start}, End == nil) or a half-open
// range delete [Start, End). It carries no sequence number: it represents
// the effective deletion accumulated from levels newer than the one
// currently being folded, and sequence numbers only matter for comparing
// entries within a single level.
type DelElement struct {
	Start []byte
	End   []byte
}

// Point constructs a point-delete DelElement.
func Point(key []byte) DelElement { return DelElement{Start: key} }

// Range constructs a range-delete DelElement over [start, end).
func Range(start, end []byte) DelElement { return DelElement{Start: start, End: end} }

// IsRange reports whether d is a range delete as opposed to a point delete.
func (d DelElement) IsRange() bool { return d.End != nil }

// boundary returns the end of d's coverage: the exclusive End for a range,
// or Start itself for a point (whose sole covered key is Start).
func (d DelElement) boundary() []byte {
	return d.Boundary()
}

// Boundary returns the end of d's coverage: the exclusive End for a range,
// or Start itself for a point (whose sole covered key is Start). Callers
// outside this package use it to reason about a DelElement's coverage
// without needing to special-case point vs. range.
func (d DelElement) Boundary() []byte {
	if d.IsRange() {
		return d.End
	}
	return d.Start
}

// Covers reports whether d deletes the given user key.
func (d DelElement) Covers(cmp base.Compare, key []byte) bool {
	if d.IsRange() {
		return cmp(d.Start, key) <= 0 && cmp(key, d.End) < 0
	}
	return cmp(d.Start, key) == 0
}

// String implements fmt.Stringer.
func (d DelElement) String() string {
	if d.IsRange() {
		return fmt.Sprintf("[%s, %s)", base.FormatBytes(d.Start), base.FormatBytes(d.End))
	}
	return fmt.Sprintf("{%s}", base.FormatBytes(d.Start))
}

// canMerge reports whether a and b, given a.Start <= b.Start, overlap or
// touch closely enough that the GDL's eager-coalescing invariant requires
// them to be combined into a single element.
func canMerge(cmp base.Compare, a, b DelElement) bool {
	if b.IsRange() {
		return cmp(b.Start, a.boundary()) <= 0
	}
	if a.IsRange() {
		return cmp(b.Start, a.End) < 0
	}
	return cmp(a.Start, b.Start) == 0
}

// mergeTwo combines a and b, given a.Start <= b.Start and canMerge(a, b).
func mergeTwo(cmp base.Compare, a, b DelElement) DelElement {
	if !a.IsRange() && !b.IsRange() {
		return a
	}
	end := a.boundary()
	if cmp(b.boundary(), end) > 0 {
		end = b.boundary()
	}
	return DelElement{Start: a.Start, End: end}
}

// List is the Global Deletion List: a sorted, coalesced sequence of
// DelElements. The zero value, given a Comparer via New, is an empty list.
type List struct {
	cmp   base.Compare
	elems []DelElement
}

// New returns an empty GDL ordered by cmp.
func New(cmp base.Compare) *List {
	return &List{cmp: cmp}
}

// Len returns the number of elements currently in the list.
func (l *List) Len() int { return len(l.elems) }

// Elements returns the list's elements in ascending order. The returned
// slice is owned by the list and must not be mutated by the caller; it is
// intended for diagnostics and tests.
func (l *List) Elements() []DelElement { return l.elems }

// Trim removes every element whose Start is at or past bound, and
// truncates any element straddling bound so that it ends exactly at bound.
// The fold calls this (from updateCSK) whenever the CSK shrinks, since only deletions that
// might hide a key strictly before the new CSK remain relevant.
func (l *List) Trim(bound []byte) {
	cmp := l.cmp
	idx := sort.Search(len(l.elems), func(i int) bool {
		return cmp(l.elems[i].Start, bound) >= 0
	})
	l.elems = l.elems[:idx]
	if idx > 0 {
		last := &l.elems[idx-1]
		if last.IsRange() && cmp(last.End, bound) > 0 {
			last.End = bound
		}
	}
}

// insertAt splices de into elems at index idx, shifting elements at and
// after idx to the right, then coalesces the new element with its left and
// right neighbors. It returns the final index of the (possibly merged)
// element.
func (l *List) insertAt(idx int, de DelElement) int {
	elems := append(l.elems, DelElement{})
	copy(elems[idx+1:], elems[idx:])
	elems[idx] = de
	l.elems = elems
	return l.coalesceAround(idx)
}

// replaceAt overwrites elems[idx] with de, then coalesces with neighbors,
// returning the final index.
func (l *List) replaceAt(idx int, de DelElement) int {
	l.elems[idx] = de
	return l.coalesceAround(idx)
}

// coalesceAround merges elems[idx] with its immediate left and right
// neighbors if they touch or overlap, collapsing the backing slice
// accordingly. It returns the index of the resulting element.
func (l *List) coalesceAround(idx int) int {
	if idx > 0 && canMerge(l.cmp, l.elems[idx-1], l.elems[idx]) {
		l.elems[idx-1] = mergeTwo(l.cmp, l.elems[idx-1], l.elems[idx])
		l.elems = append(l.elems[:idx], l.elems[idx+1:]...)
		idx--
	}
	if idx+1 < len(l.elems) && canMerge(l.cmp, l.elems[idx], l.elems[idx+1]) {
		l.elems[idx] = mergeTwo(l.cmp, l.elems[idx], l.elems[idx+1])
		l.elems = append(l.elems[:idx+1], l.elems[idx+2:]...)
	}
	return idx
}

// Iter is a cursor into a List. It holds only an index, re-validated
// against the list's current length after every mutation, rather than a
// pointer into a linked structure: the list and its iterator have no
// cyclic ownership to manage.
type Iter struct {
	l   *List
	pos int
}

// NewIter returns an Iter over l, initially invalid (as if past the end).
func (l *List) NewIter() *Iter {
	return &Iter{l: l, pos: len(l.elems)}
}

// SeekToFirst positions the iterator at the first element, if any.
func (it *Iter) SeekToFirst() {
	it.pos = 0
}

// Seek positions the iterator at the first element that covers or comes
// after key: the first element e such that key is strictly before e.End
// for a range, or at or before e.Start for a point.
func (it *Iter) Seek(key []byte) {
	elems := it.l.elems
	cmp := it.l.cmp
	it.pos = sort.Search(len(elems), func(i int) bool {
		e := elems[i]
		if e.IsRange() {
			return cmp(key, e.End) < 0
		}
		return cmp(key, e.Start) <= 0
	})
}

// SeekForward advances the iterator to Seek(key) only if its current
// element lies strictly before key; otherwise it is a no-op. This lets
// callers cheaply skip past elements known to be behind without paying for
// a full seek when the cursor is already positioned usefully.
func (it *Iter) SeekForward(key []byte) {
	if !it.Valid() {
		return
	}
	e := it.l.elems[it.pos]
	cmp := it.l.cmp
	var strictlyBefore bool
	if e.IsRange() {
		strictlyBefore = cmp(e.End, key) <= 0
	} else {
		strictlyBefore = cmp(e.Start, key) < 0
	}
	if strictlyBefore {
		it.Seek(key)
	}
}

// Valid reports whether the iterator is positioned at an element.
func (it *Iter) Valid() bool {
	return it.pos >= 0 && it.pos < len(it.l.elems)
}

// Pos returns the iterator's raw cursor position. It exists solely so a
// caller (the fold's progress validator) can detect whether a mutation or
// seek actually moved the cursor, without attaching semantic meaning to the
// index itself.
func (it *Iter) Pos() int { return it.pos }

// Key returns the element the iterator is positioned at. It is invalid to
// call Key when Valid returns false.
func (it *Iter) Key() DelElement {
	return it.l.elems[it.pos]
}

// Next advances the iterator by one element.
func (it *Iter) Next() {
	if it.pos < len(it.l.elems) {
		it.pos++
	}
}

// InsertBefore inserts de immediately before the iterator's current
// position, coalescing with the prior element (and, to preserve the GDL's
// no-touching invariant, the following element) if they touch or overlap.
// The iterator is left positioned on the element that was at its original
// position before the call (i.e. the insertion does not change what the
// iterator conceptually points at, only insert ahead of it).
func (it *Iter) InsertBefore(de DelElement) {
	n := len(it.l.elems)
	merged := it.l.insertAt(it.pos, de)
	// insertAt merged with the left neighbor iff merged < it.pos. If the
	// list then shrank by one more, the element the iterator pointed at
	// was absorbed into the merged element, so the iterator stays on it.
	if len(it.l.elems) == n-(it.pos-merged) {
		it.pos = merged
	} else {
		it.pos = merged + 1
	}
}

// InsertBeforeAndSetIterOnInserted behaves like InsertBefore, except the
// iterator ends positioned on the inserted (possibly coalesced) element
// itself rather than on what followed it.
func (it *Iter) InsertBeforeAndSetIterOnInserted(de DelElement) {
	it.pos = it.l.insertAt(it.pos, de)
}

// ReplaceWith replaces the element at the iterator's current position with
// de, coalescing with neighbors as needed. The iterator stays on the
// resulting element.
func (it *Iter) ReplaceWith(de DelElement) {
	it.pos = it.l.replaceAt(it.pos, de)
}
