package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := LoadTables("")
	require.NoError(t, err)
	return tables
}

// newTestWorld builds a seeded default match, optionally tweaked by mutate
func newTestWorld(t *testing.T, mutate func(*MatchConfig)) *World {
	t.Helper()
	cfg := DefaultMatchConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return NewWorld(cfg, testTables(t), rand.New(rand.NewSource(1)))
}

// isolate takes every ship except keep out of play without wreck side effects
func isolate(w *World, keep ...int) {
	kept := make(map[int]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for i := range w.Ships {
		if kept[i] {
			continue
		}
		s := &w.Ships[i]
		s.Destroy()
		s.wrecked = true
		s.Pod.Clear()
		s.Projectile.Deactivate()
	}
}

// place moves a ship's box to (x, y)
func place(s *Ship, x, y int) {
	s.Box.X = x
	s.Box.Y = y
}

// slotOf returns the first non-mothership slot at or after from whose team matches want
func slotOf(t *testing.T, w *World, from int, want Team) int {
	t.Helper()
	for i := from; i < len(w.Ships); i++ {
		k := w.Ships[i].Kind
		if !k.IsMothership() && k.Team() == want {
			return i
		}
	}
	t.Fatalf("no %s escort after slot %d", want, from)
	return -1
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
