// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheGetOrFetchCaches(t *testing.T) {
	c := NewCache(time.Minute)
	ctx := context.Background()
	calls := 0

	for i := 0; i < 3; i++ {
		v, err := c.GetOrFetch(ctx, "k", func(ctx context.Context) (any, error) {
			calls++
			return "value", nil
		})
		if err != nil {
			t.Fatalf("GetOrFetch #%d: %v", i+1, err)
		}
		if v != "value" {
			t.Errorf("GetOrFetch #%d: got %v, want %q", i+1, v, "value")
		}
	}
	if calls != 1 {
		t.Errorf("fetch calls: got %d, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len: got %d, want 1", c.Len())
	}
}

func TestCacheCollapsesConcurrentFetches(t *testing.T) {
	c := NewCache(time.Minute)
	ctx := context.Background()
	var calls int32

	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		// Hold the flight open long enough for the other callers to join it.
		time.Sleep(50 * time.Millisecond)
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrFetch(ctx, "shared", fn)
			if err != nil {
				t.Errorf("GetOrFetch: %v", err)
			}
			if v != "value" {
				t.Errorf("GetOrFetch: got %v, want %q", v, "value")
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want exactly 1", got)
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	c := NewCache(time.Minute)
	ctx := context.Background()
	boom := errors.New("upstream down")
	fail := true
	calls := 0

	fn := func(ctx context.Context) (any, error) {
		calls++
		if fail {
			return nil, boom
		}
		return "value", nil
	}

	if _, err := c.GetOrFetch(ctx, "k", fn); !errors.Is(err, boom) {
		t.Fatalf("GetOrFetch error: got %v, want %v", err, boom)
	}

	fail = false
	v, err := c.GetOrFetch(ctx, "k", fn)
	if err != nil {
		t.Fatalf("GetOrFetch retry: %v", err)
	}
	if v != "value" {
		t.Errorf("GetOrFetch retry: got %v, want %q", v, "value")
	}
	if calls != 2 {
		t.Errorf("fetch calls: got %d, want 2 (error must not be cached)", calls)
	}
}

func TestCacheStaleServedAlongsideError(t *testing.T) {
	c := NewCache(time.Nanosecond) // everything is stale immediately
	ctx := context.Background()
	boom := errors.New("upstream down")
	fail := false

	fn := func(ctx context.Context) (any, error) {
		if fail {
			return nil, boom
		}
		return "value", nil
	}

	if _, err := c.GetOrFetch(ctx, "k", fn); err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}

	fail = true
	v, err := c.GetOrFetch(ctx, "k", fn)
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrFetch error: got %v, want %v", err, boom)
	}
	if v != "value" {
		t.Errorf("stale value alongside error: got %v, want %q", v, "value")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)
	ctx := context.Background()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrFetch(ctx, "k", fn); err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	c.Invalidate("k")

	v, err := c.GetOrFetch(ctx, "k", fn)
	if err != nil {
		t.Fatalf("GetOrFetch after invalidate: %v", err)
	}
	if v != 2 {
		t.Errorf("value after invalidate: got %v, want a fresh fetch (2)", v)
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := NewCache(time.Minute)
	ctx := context.Background()
	fn := func(ctx context.Context) (any, error) { return "v", nil }

	for _, key := range []string{"claps:post:1", "claps:post:2", "post:hello"} {
		if _, err := c.GetOrFetch(ctx, key, fn); err != nil {
			t.Fatalf("GetOrFetch %q: %v", key, err)
		}
	}

	c.InvalidatePrefix("claps:")
	if got := c.Len(); got != 1 {
		t.Errorf("Len after prefix invalidate: got %d, want 1", got)
	}
}
