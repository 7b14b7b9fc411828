// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"testing"

	"inkfeed/internal/fetch"
)

func testActions() *Actions {
	return &Actions{
		toggles:  make(map[string]*fetch.Toggle),
		clappers: make(map[string]*fetch.Clapper),
	}
}

// TestToggleRegistryEvictionKeepsInFlightEntries verifies that hitting
// the registry cap never drops a toggle whose request is still running:
// evicting it would let a re-created entry issue a second upstream call
// for the same subject.
func TestToggleRegistryEvictionKeepsInFlightEntries(t *testing.T) {
	h := testActions()

	started := make(chan struct{})
	release := make(chan struct{})
	busy := h.toggleFor("busy", false, func(ctx context.Context, active bool) (bool, error) {
		close(started)
		<-release
		return true, nil
	})

	done := make(chan error, 1)
	go func() { done <- busy.Toggle(context.Background()) }()
	<-started

	// Fill past the cap so eviction runs while busy is in flight.
	idle := func(ctx context.Context, active bool) (bool, error) { return false, nil }
	for i := 0; i < maxTracked; i++ {
		h.toggleFor(fmt.Sprintf("idle:%d", i), false, idle)
	}

	if got, ok := h.toggle("busy"); !ok || got != busy {
		t.Fatal("in-flight toggle was evicted from the registry")
	}
	if _, ok := h.toggle("idle:0"); ok {
		t.Error("idle entry survived eviction")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !busy.Active() {
		t.Error("toggle did not settle on the server state")
	}
}

func TestClapperRegistryEvictionKeepsInFlightEntries(t *testing.T) {
	h := testActions()

	started := make(chan struct{})
	release := make(chan struct{})
	busy := h.clapperFor("busy", 3, func(ctx context.Context) (int64, error) {
		close(started)
		<-release
		return 4, nil
	})

	done := make(chan error, 1)
	go func() { done <- busy.Clap(context.Background()) }()
	<-started

	idle := func(ctx context.Context) (int64, error) { return 0, nil }
	for i := 0; i < maxTracked; i++ {
		h.clapperFor(fmt.Sprintf("idle:%d", i), 0, idle)
	}

	h.mu.Lock()
	kept, ok := h.clappers["busy"]
	h.mu.Unlock()
	if !ok || kept != busy {
		t.Fatal("in-flight clapper was evicted from the registry")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Clap: %v", err)
	}
	if got := busy.Count(); got != 4 {
		t.Errorf("count: got %d, want 4", got)
	}
}
