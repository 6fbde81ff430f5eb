// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package rangedel defines the range-tombstone representation the GS query
// engine's per-level fold reasons about, and the fragment iterator contract
// a level's raw range-deletion cursor must satisfy.
package rangedel

import (
	"fmt"

	"github.com/ridgekv/ridgekv/internal/base"
)

// Tombstone is a single range deletion: user keys in [Start, End) created at
// sequence numbers <= SeqNum are deleted. End is always strictly greater
// than Start.
type Tombstone struct {
	Start  []byte
	End    []byte
	SeqNum base.SeqNum
}

// Empty reports whether t is the zero-value, unset tombstone.
func (t Tombstone) Empty() bool { return t.Start == nil && t.End == nil }

// Contains reports whether the tombstone's range covers the given user key.
func (t Tombstone) Contains(cmp base.Compare, userKey []byte) bool {
	return cmp(t.Start, userKey) <= 0 && cmp(userKey, t.End) < 0
}

// String implements fmt.Stringer.
func (t Tombstone) String() string {
	if t.Empty() {
		return "<empty>"
	}
	return fmt.Sprintf("[%s, %s)#%s", base.FormatBytes(t.Start), base.FormatBytes(t.End), t.SeqNum)
}

// Clamp returns t with its End key truncated to upperBound if End exceeds
// it. The zero Tombstone is returned if Start itself is at or past
// upperBound, since then no part of the range survives the clamp.
//
// This is the operation the spec assigns to the Range-Tombstone Iterator:
// "if end_key > upper_bound, returned end_key is replaced by upper_bound. If
// start_key >= upper_bound, the iterator is invalid at that position."
func (t Tombstone) Clamp(cmp base.Compare, upperBound []byte) Tombstone {
	if upperBound == nil {
		return t
	}
	if cmp(t.Start, upperBound) >= 0 {
		return Tombstone{}
	}
	if cmp(t.End, upperBound) > 0 {
		t.End = upperBound
	}
	return t
}
