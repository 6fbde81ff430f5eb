// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package ridgekv

import (
	"github.com/ridgekv/ridgekv/dellist"
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/rangedel"
)

// diagnostics is the per-query flag set described in the design notes as a
// replacement for the debug globals (gs_debug_prints,
// gs_validate_iters_progress, gs_report_iters_progress) a C++ reference
// implementation would reach for. It is plumbed through GlobalContext rather
// than stored process-wide, so concurrent queries never contend over it.
type diagnostics struct {
	// validateProgress enables the progress validator: every fold
	// iteration asserts that at least one of {PVI, RTI, GDL iterator}
	// strictly advanced.
	validateProgress bool
	// logger is the column family's diagnostics logger, carried with the
	// query. The fold and the driver do not write any lines to it.
	logger base.Logger
}

// GlobalContext carries the state that is shared across every level of a
// single Get-Smallest query: the comparator, the accumulated deletion list,
// the target, and the current candidate smallest key. It has exactly one
// owner, the cross-level driver, for the lifetime of one query.
type GlobalContext struct {
	cmp    base.Compare
	target []byte

	// csk is the current best candidate smallest key. Nil means "none
	// yet". It only ever moves towards cmp's minimum once set (§8,
	// invariant 1).
	csk []byte

	gdl     *dellist.List
	gdlIter *dellist.Iter

	diag diagnostics
}

// newGlobalContext constructs the context a query starts with: empty GDL,
// empty CSK, the given comparator and target.
func newGlobalContext(cmp base.Compare, target []byte, diag diagnostics) *GlobalContext {
	gc := &GlobalContext{cmp: cmp, target: target, diag: diag}
	gc.gdl = dellist.New(cmp)
	gc.gdlIter = gc.gdl.NewIter()
	return gc
}

// CSK returns the current candidate smallest key, or nil if none has been
// found yet.
func (gc *GlobalContext) CSK() []byte { return gc.csk }

// LevelContext holds the state scoped to folding a single level: its PVI and
// RTI (both bounded by the GlobalContext's CSK at level-start), the most
// recently parsed internal key, its derived value category, and whether
// this level has already committed an improved CSK (which terminates the
// fold for the level).
type LevelContext struct {
	pvi *pointValueIterator
	rti *rangeTombstoneIterator

	parsedCurIKey base.InternalKey
	valueCategory base.ValueCategory

	newCSKFoundInLevel bool
}

// newLevelContext constructs a LevelContext whose PVI and RTI are bounded by
// gc's current CSK (nil CSK means unbounded).
func newLevelContext(gc *GlobalContext, pointIter base.InternalIterator, rtIter rangedel.FragmentIterator) *LevelContext {
	pvi := newPointValueIterator(gc.cmp, pointIter)
	rti := newRangeTombstoneIterator(gc.cmp, rtIter)
	pvi.setUpperBound(gc.csk)
	rti.setUpperBound(gc.csk)
	return &LevelContext{pvi: pvi, rti: rti}
}
