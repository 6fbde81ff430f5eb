// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	"strconv"
	"strings"
)

// FakeKVs constructs InternalKVs from the given key strings, in the format
// "key#seq,kind:value".
func FakeKVs(entries ...string) []InternalKV {
	kvs := make([]InternalKV, len(entries))
	for i, e := range entries {
		kvs[i] = fakeKV(e)
	}
	return kvs
}

func fakeKV(s string) InternalKV {
	keyPart, value, _ := strings.Cut(s, ":")
	ik, err := ParseInternalKey(keyPart)
	if err != nil {
		panic(err)
	}
	var v []byte
	if value != "" {
		v = []byte(value)
	}
	return InternalKV{K: ik, V: v}
}

// NewFakeIter returns an InternalIterator over a fixed, already-sorted set
// of KVs. It is used throughout the GS engine's tests as a stand-in for a
// memtable or sstable point cursor.
func NewFakeIter(kvs []InternalKV) *FakeIter {
	return &FakeIter{kvs: kvs, index: -1}
}

// FakeIter is a fixed-content InternalIterator, suitable for tests.
type FakeIter struct {
	kvs      []InternalKV
	index    int
	closeErr error
}

var _ InternalIterator = (*FakeIter)(nil)

// SetCloseErr causes future calls to Error() and Close() to return err.
func (f *FakeIter) SetCloseErr(err error) { f.closeErr = err }

// SeekGE implements InternalIterator.
func (f *FakeIter) SeekGE(key []byte) *InternalKV {
	for f.index = 0; f.index < len(f.kvs); f.index++ {
		if DefaultComparer.Compare(key, f.kvs[f.index].K.UserKey) <= 0 {
			return &f.kvs[f.index]
		}
	}
	return nil
}

// First implements InternalIterator.
func (f *FakeIter) First() *InternalKV {
	if len(f.kvs) == 0 {
		f.index = 0
		return nil
	}
	f.index = 0
	return &f.kvs[0]
}

// Next implements InternalIterator.
func (f *FakeIter) Next() *InternalKV {
	if f.index < 0 {
		f.index = 0
	} else {
		f.index++
	}
	if f.index >= len(f.kvs) {
		return nil
	}
	return &f.kvs[f.index]
}

// Error implements InternalIterator.
func (f *FakeIter) Error() error { return f.closeErr }

// Close implements InternalIterator.
func (f *FakeIter) Close() error { return f.closeErr }

// ParseSeqNum parses the textual representation of a sequence number used
// by datadriven fixtures. "inf" denotes SeqNumMax.
func ParseSeqNum(s string) (SeqNum, error) {
	if s == "inf" {
		return SeqNumMax, nil
	}
	n, err := strconv.ParseUint(s, 10, 56)
	if err != nil {
		return 0, ErrCorruption("invalid sequence number " + strconv.Quote(s))
	}
	return SeqNum(n), nil
}
