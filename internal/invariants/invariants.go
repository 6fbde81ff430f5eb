// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package invariants exposes a build-tag-gated Enabled flag. The GS query
// fold uses it to gate its progress validator: the assertion that every
// iteration of ProcessLogLevel's main loop strictly advances at least one of
// {PVI, RTI, GDL iterator}, described in the engine's design notes as a
// debug-only guard rather than a process-wide mutable flag.
package invariants

// Enabled is true when the binary was built with the "invariants" build
// tag. It defaults to false so that production builds pay no cost for the
// extra bookkeeping the progress validator requires.
var Enabled = false
