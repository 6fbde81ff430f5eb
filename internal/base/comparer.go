// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Compare returns -1, 0, or +1 depending on whether a is 'less than', 'equal
// to' or 'greater than' b, according to the total order imposed over the
// user key space. Both a and b must be valid keys.
type Compare func(a, b []byte) int

// Equal returns true if a and b are equivalent. For a given Compare,
// Equal(a, b) == true iff Compare(a, b) == 0; Equal exists as a
// (potentially faster) specialization.
type Equal func(a, b []byte) bool

// FormatKey formats a user key for diagnostics and datadriven tests.
type FormatKey func(key []byte) fmt.Formatter

// DefaultFormatter formats a key as a raw byte string.
var DefaultFormatter FormatKey = func(key []byte) fmt.Formatter {
	return FormatBytes(key)
}

// Comparer defines the total ordering over the user key space that the GS
// query engine relies on for every comparison it makes: internal key
// ordering, range tombstone overlap tests, and deletion-list coalescing all
// funnel through a single injected Comparer.
type Comparer struct {
	// Compare defaults to bytes.Compare if not specified.
	Compare Compare
	// Equal defaults to Compare(a, b) == 0 if not specified.
	Equal Equal
	// FormatKey defaults to DefaultFormatter if not specified.
	FormatKey FormatKey
	// Name identifies the comparer; it has no effect on the engine's
	// behavior but is useful for diagnostics when a database is opened
	// with a comparer different from the one data was written with.
	Name string
}

// EnsureDefaults returns c, or DefaultComparer if c is nil, with any
// unset optional fields filled in.
func (c *Comparer) EnsureDefaults() *Comparer {
	if c == nil {
		return DefaultComparer
	}
	if c.Compare != nil && c.Equal != nil && c.FormatKey != nil {
		return c
	}
	n := &Comparer{}
	*n = *c
	if n.Compare == nil {
		n.Compare = bytes.Compare
	}
	if n.Equal == nil {
		cmp := n.Compare
		n.Equal = func(a, b []byte) bool { return cmp(a, b) == 0 }
	}
	if n.FormatKey == nil {
		n.FormatKey = DefaultFormatter
	}
	return n
}

// DefaultComparer orders user keys using the natural byte-wise order,
// consistent with bytes.Compare. It is the comparer used whenever a
// column family does not specify its own.
var DefaultComparer = &Comparer{
	Compare:   bytes.Compare,
	Equal:     bytes.Equal,
	FormatKey: DefaultFormatter,
	// This name is part of the LevelDB/RocksDB family of on-disk formats
	// and should not be changed.
	Name: "leveldb.BytewiseComparator",
}

// MinUserKey returns the smaller of two user keys according to cmp. A nil
// key is treated as "no key" rather than as the minimum: if one of the
// arguments is nil, the other is returned.
func MinUserKey(cmp Compare, a, b []byte) []byte {
	if a != nil && (b == nil || cmp(a, b) < 0) {
		return a
	}
	return b
}

// FormatBytes formats a byte slice, escaping non-printable bytes as \xNN.
type FormatBytes []byte

const lowerhex = "0123456789abcdef"

// Format implements fmt.Formatter.
func (p FormatBytes) Format(s fmt.State, c rune) {
	buf := make([]byte, 0, len(p))
	for _, b := range p {
		if b < utf8.RuneSelf && strconv.IsPrint(rune(b)) {
			buf = append(buf, b)
			continue
		}
		buf = append(buf, `\x`...)
		buf = append(buf, lowerhex[b>>4])
		buf = append(buf, lowerhex[b&0xF])
	}
	s.Write(buf)
}
