// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fetch synchronizes upstream-owned collections and resources
// with render-time consumers. It accumulates paginated results, collapses
// concurrent fetches of one key into a single upstream request, and runs
// optimistic mutations with in-flight suppression and rollback.
package fetch

import (
	"context"
	"sync"

	"inkfeed/internal/api"
)

// Keyer is implemented by entities that can be deduplicated across pages.
type Keyer interface {
	Key() string
}

// PageFunc fetches one page of a collection from the upstream.
type PageFunc[T Keyer] func(ctx context.Context, page, limit int) (api.Page[T], error)

// Collection accumulates sequential pages of an upstream collection into
// one deduplicated, order-preserving list.
//
// Pages are cached by their requested index, never by arrival order, so
// the flattened result is always page 1, then 2, then 3 even if the
// network completes out of order. Aggregate totals are trusted from
// page 1 only — later pages are not assumed to repeat accurate counts.
// The page size is fixed for the life of the collection; only the
// accumulation cursor advances.
type Collection[T Keyer] struct {
	mu       sync.Mutex
	fetch    PageFunc[T]
	pageSize int
	enabled  bool

	size      int // number of pages the consumer has asked for, starts at 1
	pages     map[int][]T
	fetched   map[int]bool
	exhausted bool // a fetched page came back short or empty
	loading   bool
	err       error

	total            int
	totalWithReplies int
	totalSet         bool
}

// NewCollection creates a collection over the given page fetcher.
// A disabled collection issues no network calls and exposes empty state;
// enable it later with SetEnabled.
func NewCollection[T Keyer](fn PageFunc[T], pageSize int, enabled bool) *Collection[T] {
	return &Collection[T]{
		fetch:    fn,
		pageSize: pageSize,
		enabled:  enabled,
		size:     1,
		pages:    make(map[int][]T),
		fetched:  make(map[int]bool),
	}
}

// SetEnabled gates fetching. Re-enabling reuses previously cached pages;
// it does not force a refetch — call Mutate for that.
func (c *Collection[T]) SetEnabled(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = v
}

// Load fetches every not-yet-fetched page up to the current cursor, in
// increasing index order. It is a no-op while another load is running or
// when the collection is disabled. The first error stops the walk but
// already-cached pages stay in place.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if !c.enabled || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	target := c.size
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	for page := 1; page <= target; page++ {
		c.mu.Lock()
		done := c.fetched[page]
		stop := c.exhausted && !done
		c.mu.Unlock()
		if done {
			continue
		}
		if stop {
			// A previous page signalled the end of the collection.
			return nil
		}
		if err := c.fetchPage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

// LoadMore advances the cursor by one page and fetches it. It is a no-op
// when a load is in flight, the collection is disabled, or the last page
// signalled exhaustion.
func (c *Collection[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.enabled || c.loading || !c.canLoadMoreLocked() {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.size++
	page := c.size
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	return c.fetchPage(ctx, page)
}

// Mutate invalidates and refetches every page up to the current cursor.
// Used after a write (e.g. a new comment) so accumulated pages reflect
// the server again. Clears the exhaustion flag first, since the write
// may have grown the collection.
func (c *Collection[T]) Mutate(ctx context.Context) error {
	c.mu.Lock()
	if !c.enabled || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.exhausted = false
	c.totalSet = false
	c.fetched = make(map[int]bool)
	target := c.size
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	for page := 1; page <= target; page++ {
		c.mu.Lock()
		stop := c.exhausted
		c.mu.Unlock()
		if stop {
			return nil
		}
		if err := c.fetchPage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

// fetchPage performs the network call outside the lock and indexes the
// result by the requested page number.
func (c *Collection[T]) fetchPage(ctx context.Context, page int) error {
	result, err := c.fetch(ctx, page, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Prior pages are never cleared on error; the consumer keeps
		// rendering stale-but-valid content.
		c.err = err
		return err
	}

	c.err = nil
	c.pages[page] = result.Items
	c.fetched[page] = true

	if len(result.Items) < c.pageSize {
		c.exhausted = true
	}

	// Only page 1's aggregates are trusted.
	if page == 1 && !c.totalSet {
		c.total = result.TotalCount
		c.totalWithReplies = result.TotalWithReplies
		c.totalSet = true
	}
	return nil
}

// Items flattens all fetched pages in index order and deduplicates by
// entity key, keeping the first occurrence. Dedup matters because a
// server-side insert between two client fetches can shift page
// boundaries and re-return an already-seen entity.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool)
	var out []T
	for page := 1; page <= c.size; page++ {
		for _, item := range c.pages[page] {
			k := item.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, item)
		}
	}
	return out
}

// CanLoadMore reports whether another page is believed to exist: true
// while the most recently fetched page was full. Once a short page is
// seen it stays false until Mutate.
func (c *Collection[T]) CanLoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canLoadMoreLocked()
}

func (c *Collection[T]) canLoadMoreLocked() bool {
	if !c.enabled || c.exhausted {
		return false
	}
	// Before anything is fetched, assume more exists.
	if len(c.fetched) == 0 {
		return true
	}
	last, ok := c.pages[c.highestFetchedLocked()]
	return ok && len(last) == c.pageSize
}

func (c *Collection[T]) highestFetchedLocked() int {
	highest := 0
	for page := range c.fetched {
		if page > highest {
			highest = page
		}
	}
	return highest
}

// TotalCount returns the aggregate count reported by page 1, or zero
// before the first page arrives.
func (c *Collection[T]) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// TotalWithReplies returns page 1's total-including-replies aggregate.
// Zero for collections whose endpoint does not report one.
func (c *Collection[T]) TotalWithReplies() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalWithReplies
}

// Loading reports whether a fetch is currently in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the most recent fetch error, cleared by the next success.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Size returns the current accumulation cursor (number of pages asked for).
func (c *Collection[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
