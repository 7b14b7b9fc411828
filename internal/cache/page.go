// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache for anonymous
// renders. When a public page (feed, post, search) is rendered, the HTML
// is stored in Valkey so subsequent anonymous requests skip the upstream
// API calls and template execution entirely. Mutations that change what
// a page shows (claps, comments, post edits) invalidate the affected keys.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"inkfeed/internal/slug"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single page from the cache by key.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateListings removes every cached listing page: the feed and
// all tag, category, and search renders. Called after any mutation that
// changes what listings show (post create/update/delete, claps), since
// all of them carry post previews and counters.
func (pc *PageCache) InvalidateListings(ctx context.Context) {
	for _, prefix := range []string{"feed:", "tag:", "category:", "search:"} {
		pc.invalidatePrefix(ctx, pageKeyPrefix+prefix)
	}
}

// InvalidatePost removes a post page by slug. Called after claps,
// comments, or edits on the post.
func (pc *PageCache) InvalidatePost(ctx context.Context, titleName string) {
	pc.Invalidate(ctx, PostKey(titleName))
}

// invalidatePrefix removes all keys under a prefix by scanning.
func (pc *PageCache) invalidatePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache prefix cleared", "prefix", prefix, "deleted", deleted)
	}
}

// FeedKey returns the cache key for an accumulated feed render of the
// given depth (number of pages loaded).
func FeedKey(pages int) string {
	return "feed:" + strconv.Itoa(pages)
}

// PostKey returns the cache key for a post page by its slug.
func PostKey(titleName string) string {
	return "post:" + titleName
}

// SearchKey returns the cache key for a search results page. The query
// is slugged so arbitrary input cannot produce unbounded key shapes.
func SearchKey(query string) string {
	return "search:" + slug.Generate(query)
}

// TagKey returns the cache key for a tag filter page.
func TagKey(tagSlug string, pages int) string {
	return "tag:" + tagSlug + ":" + strconv.Itoa(pages)
}

// CategoryKey returns the cache key for a category filter page.
func CategoryKey(catSlug string, pages int) string {
	return "category:" + catSlug + ":" + strconv.Itoa(pages)
}
