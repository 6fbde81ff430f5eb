// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package base

import "testing"

// TestNoopLoggerDiscards confirms NoopLogger never panics and never exits
// the process; it is the default logger for queries that don't ask for a
// trace.
func TestNoopLoggerDiscards(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Infof("discarded: %d", 1)
	l.Fatalf("also discarded: %d", 2)
}
