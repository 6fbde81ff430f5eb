// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package ridgekv_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/ridgekv/ridgekv"
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/memstore"
)

// parseLevels builds a *memstore.Store from a "define" block. Each line
// either starts a new level ("mem", "imm", "l0", "l1", "l2", ...) or, within
// a level, records an entry:
//
//	set <key> <seq> <value>
//	del <key> <seq>
//	delrange <start> <end> <seq>
func parseLevels(t *testing.T, input string) *memstore.Store {
	store := memstore.New(base.DefaultComparer)
	var cur *memstore.Run
	var curL0 bool

	newRun := func() *memstore.Run { return memstore.NewRun(base.DefaultComparer.Compare) }

	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "mem":
			cur = store.Active
			curL0 = false
		case "imm":
			cur = newRun()
			store.Immutables = append(store.Immutables, cur)
			curL0 = false
		case "l0":
			cur = newRun()
			store.L0 = append(store.L0, cur)
			curL0 = true
		case "l1", "l2", "l3":
			cur = newRun()
			store.Levels = append(store.Levels, cur)
			curL0 = false
		case "set":
			seq := mustSeq(t, fields[2])
			cur.Add([]byte(fields[1]), seq, base.InternalKeyKindSet, []byte(fields[3]))
		case "del":
			seq := mustSeq(t, fields[2])
			cur.Add([]byte(fields[1]), seq, base.InternalKeyKindDelete, nil)
		case "delrange":
			if curL0 {
				t.Fatalf("delrange not supported on l0 fixtures in this harness")
			}
			seq := mustSeq(t, fields[3])
			cur.DeleteRange([]byte(fields[1]), []byte(fields[2]), seq)
		default:
			t.Fatalf("unrecognized define line %q", line)
		}
	}
	return store
}

func mustSeq(t *testing.T, s string) base.SeqNum {
	n, err := strconv.ParseUint(s, 10, 56)
	if err != nil {
		t.Fatalf("bad sequence number %q: %s", s, err)
	}
	return base.SeqNum(n)
}

func TestGetSmallest(t *testing.T) {
	var store *memstore.Store
	datadriven.RunTest(t, "testdata/query", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "define":
			store = parseLevels(t, td.Input)
			return ""

		case "get":
			var buf strings.Builder
			engine := &ridgekv.Engine{ValidateProgress: true}
			for _, line := range strings.Split(strings.TrimSpace(td.Input), "\n") {
				target := strings.TrimSpace(line)
				if target == `""` {
					target = ""
				}
				var (
					key []byte
					err error
				)
				if target == "" {
					key, err = engine.GetSmallest(ridgekv.ReadOptions{}, store)
				} else {
					key, err = engine.GetSmallestAtOrAfter(ridgekv.ReadOptions{}, store, []byte(target))
				}
				switch {
				case errors.Is(err, base.ErrNotFound):
					fmt.Fprintf(&buf, "get(%q) = not-found\n", target)
				case err != nil:
					fmt.Fprintf(&buf, "get(%q) = error: %s\n", target, err)
				default:
					fmt.Fprintf(&buf, "get(%q) = %q\n", target, key)
				}
			}
			return buf.String()

		default:
			return fmt.Sprintf("unrecognized command %q", td.Cmd)
		}
	})
}
