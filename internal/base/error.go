// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import (
	stderrors "errors"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ErrNotFound is returned by GetSmallest / GetSmallestAtOrAfter when the
// query exhausts every level with an empty candidate-smallest-key. It is a
// normal terminal condition, not a failure, so callers are expected to test
// for it with errors.Is.
var ErrNotFound = stderrors.New("ridgekv: not found")

// ErrCorruption wraps a data-integrity failure: a malformed internal key, an
// ill-formed range tombstone, or any other condition that indicates the
// on-disk or in-memory representation violated an invariant the engine
// depends on. The engine never attempts to repair corruption locally; it
// aborts the query and lets the caller decide whether to retry elsewhere.
func ErrCorruption(reason string) error {
	return errors.WithStack(errors.Newf("ridgekv: corruption: %s", redact.Safe(reason)))
}

// AssertionFailedf reports an internal invariant violation: a condition the
// fold algorithm guarantees can never occur (for example, a range tombstone
// and a point key sharing the exact same sequence number at the same user
// key) so that a violated invariant fails loudly rather than silently
// returning a wrong answer.
func AssertionFailedf(format string, args ...interface{}) error {
	return errors.AssertionFailedf(format, args...)
}
