// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package rangedel

import (
	"sort"

	"github.com/ridgekv/ridgekv/internal/base"
)

// Fragment takes a set of possibly overlapping tombstones written to a
// single level and splits them at every start/end boundary so that the
// result satisfies the FragmentIterator contract: non-overlapping,
// ascending tombstones, each carrying the highest sequence number that
// covered that sub-range in the input.
//
// This mirrors the role of the memtable/sstable range-deletion fragmenter
// in the surrounding database: by the time a level's raw cursor reaches the
// GS engine, its tombstones are assumed already fragmented. Fragment is
// provided so that tests and the in-memory demo store (see memstore) can
// produce well-formed fixtures from naturally-overlapping writes.
func Fragment(cmp base.Compare, tombstones []Tombstone) []Tombstone {
	if len(tombstones) == 0 {
		return nil
	}
	boundSet := make(map[string][]byte)
	var bounds [][]byte
	addBound := func(b []byte) {
		if _, ok := boundSet[string(b)]; !ok {
			boundSet[string(b)] = b
			bounds = append(bounds, b)
		}
	}
	for _, t := range tombstones {
		addBound(t.Start)
		addBound(t.End)
	}
	sort.Slice(bounds, func(i, j int) bool { return cmp(bounds[i], bounds[j]) < 0 })

	var out []Tombstone
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		var maxSeq base.SeqNum
		var covered bool
		for _, t := range tombstones {
			if cmp(t.Start, start) <= 0 && cmp(end, t.End) <= 0 {
				if !covered || t.SeqNum > maxSeq {
					maxSeq = t.SeqNum
				}
				covered = true
			}
		}
		if !covered {
			continue
		}
		if n := len(out); n > 0 && out[n-1].SeqNum == maxSeq && cmp(out[n-1].End, start) == 0 {
			out[n-1].End = end
			continue
		}
		out = append(out, Tombstone{Start: start, End: end, SeqNum: maxSeq})
	}
	return out
}

// SliceIter is a FragmentIterator over an already-fragmented, sorted slice
// of tombstones. It is the range-tombstone analogue of base.FakeIter.
type SliceIter struct {
	cmp   base.Compare
	spans []Tombstone
	index int
}

var _ FragmentIterator = (*SliceIter)(nil)

// NewSliceIter returns a FragmentIterator over spans, which must already be
// fragmented (non-overlapping, ascending by Start).
func NewSliceIter(cmp base.Compare, spans []Tombstone) *SliceIter {
	return &SliceIter{cmp: cmp, spans: spans, index: -1}
}

// SeekGE implements FragmentIterator.
func (s *SliceIter) SeekGE(key []byte) *Tombstone {
	for s.index = 0; s.index < len(s.spans); s.index++ {
		if s.cmp(key, s.spans[s.index].End) < 0 {
			return &s.spans[s.index]
		}
	}
	return nil
}

// First implements FragmentIterator.
func (s *SliceIter) First() *Tombstone {
	if len(s.spans) == 0 {
		s.index = 0
		return nil
	}
	s.index = 0
	return &s.spans[0]
}

// Next implements FragmentIterator.
func (s *SliceIter) Next() *Tombstone {
	if s.index < 0 {
		s.index = 0
	} else {
		s.index++
	}
	if s.index >= len(s.spans) {
		return nil
	}
	return &s.spans[s.index]
}

// Error implements FragmentIterator.
func (s *SliceIter) Error() error { return nil }

// Close implements FragmentIterator.
func (s *SliceIter) Close() error { return nil }
