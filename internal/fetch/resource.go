// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fetch

import (
	"context"
	"sync"
)

// FetchFunc fetches a single resource from the upstream.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Resource is a fetch-once-and-cache wrapper around a single upstream
// value (a post, a clap count, a bookmark status). While disabled it
// issues no network calls and reports the zero value with Loading()
// false — consumers mount resources before the user ever opens the
// surface that needs them.
type Resource[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	enabled bool
	loaded  bool
	loading bool
	data    T
	err     error
}

// NewResource creates a resource over the given fetcher.
func NewResource[T any](fn FetchFunc[T], enabled bool) *Resource[T] {
	return &Resource[T]{fetch: fn, enabled: enabled}
}

// SetEnabled gates fetching. Enabling does not itself fetch; the next
// Get does.
func (r *Resource[T]) SetEnabled(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = v
}

// Get returns the cached value, fetching it first if enabled and not yet
// loaded. Disabled resources return the zero value and nil error without
// touching the network.
func (r *Resource[T]) Get(ctx context.Context) (T, error) {
	r.mu.Lock()
	if !r.enabled || r.loaded || r.loading {
		data, err := r.data, r.err
		r.mu.Unlock()
		return data, err
	}
	r.loading = true
	r.mu.Unlock()

	data, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		// Keep any previous value; record the error.
		r.err = err
		return r.data, err
	}
	r.data = data
	r.err = nil
	r.loaded = true
	return data, nil
}

// Mutate discards the cached value and refetches on the spot. No-op
// while disabled.
func (r *Resource[T]) Mutate(ctx context.Context) error {
	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		return nil
	}
	r.loaded = false
	r.mu.Unlock()

	_, err := r.Get(ctx)
	return err
}

// Data returns the cached value without fetching.
func (r *Resource[T]) Data() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Loading reports whether a fetch is in flight. Always false while
// disabled.
func (r *Resource[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the most recent fetch error, cleared by the next success.
func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
