// Copyright 2024 The Ridge Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Command ridgekv is a small introspection tool for the Get-Smallest query
// engine, in the spirit of cmd/pebble: rather than driving a full database,
// it builds an in-memory fixture from a scripted set of levels and reports
// what get-smallest / get-smallest-at-or-after returns against it.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ridgekv/ridgekv"
	"github.com/ridgekv/ridgekv/internal/base"
	"github.com/ridgekv/ridgekv/memstore"
	"github.com/spf13/cobra"
)

var target string

var rootCmd = &cobra.Command{
	Use:   "ridgekv [command] (flags)",
	Short: "ridgekv Get-Smallest query engine demo tool",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run get-smallest against a built-in fixture and print the result",
	RunE:  runDemo,
}

func main() {
	log.SetFlags(0)
	cobra.EnableCommandSorting = false

	demoCmd.Flags().StringVarP(&target, "target", "t", "", "lower-bound user key (empty means no bound)")
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildFixture reproduces scenario 5 of the engine's testable properties:
// range-tombstone coalescing across the active memtable and an immutable
// memtable, with live keys in L0 on either side of the coalesced range.
func buildFixture() *memstore.Store {
	store := memstore.New(base.DefaultComparer)

	store.Active.DeleteRange([]byte("b"), []byte("d"), 9)

	imm := memstore.NewRun(base.DefaultComparer.Compare)
	imm.DeleteRange([]byte("c"), []byte("f"), 8)
	store.Immutables = append(store.Immutables, imm)

	l0 := memstore.NewRun(base.DefaultComparer.Compare)
	l0.Add([]byte("a"), 1, base.InternalKeyKindSet, []byte("1"))
	l0.Add([]byte("g"), 1, base.InternalKeyKindSet, []byte("1"))
	store.L0 = append(store.L0, l0)

	return store
}

func runDemo(cmd *cobra.Command, args []string) error {
	store := buildFixture()

	engine := &ridgekv.Engine{ValidateProgress: true}
	var (
		key []byte
		err error
	)
	if target == "" {
		key, err = engine.GetSmallest(ridgekv.ReadOptions{}, store)
	} else {
		key, err = engine.GetSmallestAtOrAfter(ridgekv.ReadOptions{}, store, []byte(target))
	}

	if errors.Is(err, base.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "not found")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", key)
	return nil
}
