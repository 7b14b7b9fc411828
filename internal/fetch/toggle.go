// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fetch

import (
	"context"
	"sync"
	"sync/atomic"
)

// ToggleFunc performs the server action for a toggle. active is the
// state before the toggle; the returned value is the server's new state.
type ToggleFunc func(ctx context.Context, active bool) (bool, error)

// Toggle runs an optimistic boolean mutation (bookmark, follow) with an
// in-flight guard: a second invocation while a request is pending is a
// no-op, so double-clicks produce exactly one upstream call.
//
// The state flips optimistically before the request, settles on the
// server's answer on success, and rolls back on failure. The error is
// returned to the caller for surfacing; nothing blocks.
type Toggle struct {
	mu       sync.Mutex
	inFlight atomic.Bool
	do       ToggleFunc
	active   bool
	err      error
}

// NewToggle creates a toggle seeded with the current server-side state.
func NewToggle(do ToggleFunc, active bool) *Toggle {
	return &Toggle{do: do, active: active}
}

// Toggle flips the state. Returns nil immediately when a request is
// already in flight.
func (t *Toggle) Toggle(ctx context.Context) error {
	if !t.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer t.inFlight.Store(false)

	t.mu.Lock()
	prev := t.active
	t.active = !prev // optimistic flip
	t.mu.Unlock()

	next, err := t.do(ctx, prev)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.active = prev // roll back
		t.err = err
		return err
	}
	t.active = next
	t.err = nil
	return nil
}

// Active returns the current (possibly optimistic) state.
func (t *Toggle) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Pending reports whether a request is in flight.
func (t *Toggle) Pending() bool {
	return t.inFlight.Load()
}

// Err returns the most recent toggle error, cleared by the next success.
func (t *Toggle) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// ClapFunc records one clap and returns the new aggregate count.
type ClapFunc func(ctx context.Context) (int64, error)

// Clapper accumulates claps on a subject. Unlike Toggle it has no off
// state — every invocation adds one — but it shares the same in-flight
// suppression and rollback discipline.
type Clapper struct {
	mu       sync.Mutex
	inFlight atomic.Bool
	do       ClapFunc
	count    int64
	err      error
}

// NewClapper creates a clapper seeded with the current aggregate count.
func NewClapper(do ClapFunc, count int64) *Clapper {
	return &Clapper{do: do, count: count}
}

// Clap records one clap. Returns nil immediately when a request is
// already in flight.
func (c *Clapper) Clap(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	prev := c.count
	c.count = prev + 1 // optimistic bump
	c.mu.Unlock()

	count, err := c.do(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.count = prev
		c.err = err
		return err
	}
	// Settle on the server's aggregate, which may include other readers'
	// claps landed in the meantime.
	c.count = count
	c.err = nil
	return nil
}

// Count returns the current (possibly optimistic) aggregate.
func (c *Clapper) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Pending reports whether a request is in flight.
func (c *Clapper) Pending() bool {
	return c.inFlight.Load()
}

// Err returns the most recent clap error, cleared by the next success.
func (c *Clapper) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
