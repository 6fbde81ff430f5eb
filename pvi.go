// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package ridgekv

import "github.com/ridgekv/ridgekv/internal/base"

// pointValueIterator wraps a level's raw InternalIterator, adding the
// exclusive upper bound the fold needs: once the current key's user key
// reaches upperBound, the PVI reports itself invalid even though the
// underlying cursor may have further keys. The bound starts unset (nil,
// meaning unbounded) and is only ever tightened, matching the fold's
// monotonically-shrinking CSK.
//
// This mirrors the bounded-cursor pattern pebble's own point iterators use
// (SetBounds), trimmed to the single direction and single mutation
// (tighten-only) the GS fold actually exercises.
type pointValueIterator struct {
	cmp        base.Compare
	iter       base.InternalIterator
	upperBound []byte // exclusive; nil means unbounded
	kv         *base.InternalKV
}

func newPointValueIterator(cmp base.Compare, iter base.InternalIterator) *pointValueIterator {
	return &pointValueIterator{cmp: cmp, iter: iter}
}

// setUpperBound tightens the PVI's exclusive upper bound. Per update_csk,
// the PVI's bound is never explicitly retightened there (the PVI is already
// positioned exactly on the new CSK), but the driver sets it fresh for every
// new level.
func (p *pointValueIterator) setUpperBound(userKey []byte) {
	p.upperBound = userKey
}

// clamp re-evaluates validity of the current position against upperBound.
func (p *pointValueIterator) clamp() *base.InternalKV {
	if p.kv == nil {
		return nil
	}
	if p.upperBound != nil && p.cmp(p.kv.K.UserKey, p.upperBound) >= 0 {
		return nil
	}
	return p.kv
}

// seekToFirst positions the PVI at the first internal key in the level.
func (p *pointValueIterator) seekToFirst() *base.InternalKV {
	p.kv = p.iter.First()
	return p.clamp()
}

// seek positions the PVI at the first internal key whose user key is >=
// userKey, using SeqNumMax as the lookup sequence so that every version of
// that user key is reachable in newest-first order.
func (p *pointValueIterator) seek(userKey []byte) *base.InternalKV {
	p.kv = p.iter.SeekGE(userKey)
	return p.clamp()
}

// next advances to the next internal key.
func (p *pointValueIterator) next() *base.InternalKV {
	p.kv = p.iter.Next()
	return p.clamp()
}

// valid reports whether the PVI is positioned at a key within its bound.
func (p *pointValueIterator) valid() bool {
	return p.clamp() != nil
}

// key returns the current internal key. Valid must be true.
func (p *pointValueIterator) key() base.InternalKey { return p.kv.K }

// value returns the current value bytes. Valid must be true.
func (p *pointValueIterator) value() []byte { return p.kv.V }

// status returns any error accumulated by the underlying cursor.
func (p *pointValueIterator) status() error { return p.iter.Error() }

// close releases the underlying cursor.
func (p *pointValueIterator) close() error { return p.iter.Close() }
