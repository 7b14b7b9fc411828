// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/fetch"
	"inkfeed/internal/middleware"
	"inkfeed/internal/models"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// Public serves the reader pages. Anonymous renders of the feed, post,
// filter, and search pages are cached whole in Valkey; authenticated
// renders always hit the upstream because they carry per-user state
// (bookmarks, follows).
type Public struct {
	core
	svc             *api.Services
	pages           *cache.PageCache
	resources       *fetch.Cache
	feedPageSize    int
	commentPageSize int
}

// NewPublic creates the public page handlers.
func NewPublic(rend *render.Renderer, sessions *session.Store, svc *api.Services, pages *cache.PageCache, resources *fetch.Cache, feedPageSize, commentPageSize int) *Public {
	return &Public{
		core:            core{render: rend, sessions: sessions},
		svc:             svc,
		pages:           pages,
		resources:       resources,
		feedPageSize:    feedPageSize,
		commentPageSize: commentPageSize,
	}
}

// Health responds to load balancer health checks.
func (h *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}

// Feed renders the home feed. ?pages=N accumulates the first N feed
// pages into one render, so "More posts" grows the page instead of
// replacing it.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	depth := pagesParam(r, "pages")
	anon := middleware.SessionFromCtx(ctx) == nil
	key := cache.FeedKey(depth)

	if anon {
		if html, ok := h.pages.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	coll := fetch.NewCollection(h.svc.Posts.List, h.feedPageSize, true)
	if err := loadPages(ctx, coll, depth); err != nil {
		h.apiError(w, r, err)
		return
	}

	data := h.pageData(r, "Home", "feed")
	data.Data["Posts"] = coll.Items()
	if coll.CanLoadMore() {
		data.Data["CanLoadMore"] = true
		data.Data["MorePath"] = fmt.Sprintf("/?pages=%d", depth+1)
	}
	h.attachSidebar(ctx, data)

	h.serve(w, r, "feed", data, anon, key)
}

// Post renders a single post with its accumulated comment pages.
// ?cpages=N loads the first N comment pages; only the depth-1 anonymous
// render is page-cached.
func (h *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	titleName := chi.URLParam(r, "titleName")
	depth := pagesParam(r, "cpages")
	sess := middleware.SessionFromCtx(ctx)
	cacheable := sess == nil && depth == 1
	key := cache.PostKey(titleName)

	if cacheable {
		if html, ok := h.pages.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	comments := fetch.NewCollection(func(ctx context.Context, page, limit int) (api.Page[models.Comment], error) {
		return h.svc.Comments.ListForPost(ctx, post.ID, page, limit)
	}, h.commentPageSize, true)
	if err := loadPages(ctx, comments, depth); err != nil {
		// The post itself loaded; render it with whatever comment pages
		// arrived before the failure.
		slog.Warn("comment pages load failed", "post_id", post.ID, "error", err)
	}

	clapCount, err := cachedClapCount(ctx, h.resources, h.svc, api.ClapPost, post.ID)
	if err != nil {
		slog.Warn("clap count load failed", "post_id", post.ID, "error", err)
		clapCount = post.ClapCount
	}

	data := h.pageData(r, post.Title, "feed")
	data.Data["Post"] = post
	data.Data["ClapCount"] = clapCount
	data.Data["Comments"] = comments.Items()
	data.Data["CommentTotal"] = comments.TotalCount()
	data.Data["CommentTotalWithReplies"] = comments.TotalWithReplies()
	if comments.CanLoadMore() {
		data.Data["CanLoadMoreComments"] = true
		data.Data["NextCommentPages"] = depth + 1
	}

	// Per-user state. Both resources stay disabled for anonymous readers,
	// reporting their zero value without touching the upstream.
	bookmark := fetch.NewResource(func(ctx context.Context) (bool, error) {
		return h.svc.Bookmarks.Status(ctx, post.ID)
	}, sess != nil)
	bookmarked, err := bookmark.Get(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Warn("bookmark status load failed", "post_id", post.ID, "error", err)
	}
	data.Data["Bookmarked"] = bookmarked

	following := fetch.NewResource(func(ctx context.Context) (bool, error) {
		return h.svc.Follows.Following(ctx, post.Author.ID)
	}, sess != nil && sess.User.ID != post.Author.ID)
	isFollowing, err := following.Get(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Warn("follow status load failed", "user_id", post.Author.ID, "error", err)
	}
	data.Data["Following"] = isFollowing

	h.serve(w, r, "post", data, cacheable, key)
}

// Tag renders the feed filtered to one tag.
func (h *Public) Tag(w http.ResponseWriter, r *http.Request) {
	tagSlug := chi.URLParam(r, "slug")
	h.filteredFeed(w, r, "#"+tagSlug,
		cache.TagKey(tagSlug, pagesParam(r, "pages")),
		"/tag/"+tagSlug,
		func(ctx context.Context, page, limit int) (api.Page[models.Post], error) {
			return h.svc.Posts.ListByTag(ctx, tagSlug, page, limit)
		})
}

// Category renders the feed filtered to one category.
func (h *Public) Category(w http.ResponseWriter, r *http.Request) {
	catSlug := chi.URLParam(r, "slug")
	h.filteredFeed(w, r, catSlug,
		cache.CategoryKey(catSlug, pagesParam(r, "pages")),
		"/category/"+catSlug,
		func(ctx context.Context, page, limit int) (api.Page[models.Post], error) {
			return h.svc.Posts.ListByCategory(ctx, catSlug, page, limit)
		})
}

// filteredFeed is the shared body of the tag and category pages.
func (h *Public) filteredFeed(w http.ResponseWriter, r *http.Request, title, key, basePath string, fn fetch.PageFunc[models.Post]) {
	ctx := r.Context()
	depth := pagesParam(r, "pages")
	anon := middleware.SessionFromCtx(ctx) == nil

	if anon {
		if html, ok := h.pages.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	coll := fetch.NewCollection(fn, h.feedPageSize, true)
	if err := loadPages(ctx, coll, depth); err != nil {
		h.apiError(w, r, err)
		return
	}

	data := h.pageData(r, title, "feed")
	data.Data["Posts"] = coll.Items()
	if coll.CanLoadMore() {
		data.Data["CanLoadMore"] = true
		data.Data["MorePath"] = fmt.Sprintf("%s?pages=%d", basePath, depth+1)
	}
	h.attachSidebar(ctx, data)

	h.serve(w, r, "feed", data, anon, key)
}

// Search renders full-text results plus matching tags. An empty query
// shows just the search form.
func (h *Public) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	depth := pagesParam(r, "pages")
	anon := middleware.SessionFromCtx(ctx) == nil
	cacheable := anon && depth == 1 && query != ""
	key := cache.SearchKey(query)

	data := h.pageData(r, "Search", "search")
	data.Data["Query"] = query

	if query == "" {
		h.serve(w, r, "search", data, false, "")
		return
	}

	if cacheable {
		if html, ok := h.pages.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	coll := fetch.NewCollection(func(ctx context.Context, page, limit int) (api.Page[models.Post], error) {
		return h.svc.Posts.Search(ctx, query, page, limit)
	}, h.feedPageSize, true)
	if err := loadPages(ctx, coll, depth); err != nil {
		h.apiError(w, r, err)
		return
	}

	data.Data["Posts"] = coll.Items()
	data.Data["TotalCount"] = coll.TotalCount()
	if coll.CanLoadMore() {
		data.Data["CanLoadMore"] = true
		data.Data["MorePath"] = fmt.Sprintf("/search?q=%s&pages=%d", url.QueryEscape(query), depth+1)
	}

	if tags, err := h.svc.Taxonomy.SearchTags(ctx, query); err != nil {
		slog.Warn("tag search failed", "query", query, "error", err)
	} else {
		data.Data["Tags"] = tags
	}

	h.serve(w, r, "search", data, cacheable, key)
}

// Profile renders a user's public profile and their posts.
func (h *Public) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	depth := pagesParam(r, "pages")
	sess := middleware.SessionFromCtx(ctx)

	user, err := cachedProfile(ctx, h.resources, h.svc, username)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	coll := fetch.NewCollection(func(ctx context.Context, page, limit int) (api.Page[models.Post], error) {
		return h.svc.Posts.ListByAuthor(ctx, username, page, limit)
	}, h.feedPageSize, true)
	if err := loadPages(ctx, coll, depth); err != nil {
		h.apiError(w, r, err)
		return
	}

	following := fetch.NewResource(func(ctx context.Context) (bool, error) {
		return h.svc.Follows.Following(ctx, user.ID)
	}, sess != nil && sess.User.ID != user.ID)
	isFollowing, err := following.Get(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Warn("follow status load failed", "user_id", user.ID, "error", err)
	}

	data := h.pageData(r, user.Name(), "")
	data.Data["User"] = user
	data.Data["Posts"] = coll.Items()
	data.Data["Following"] = isFollowing
	if coll.CanLoadMore() {
		data.Data["CanLoadMore"] = true
		data.Data["MorePath"] = fmt.Sprintf("/u/%s?pages=%d", username, depth+1)
	}

	h.serve(w, r, "profile", data, false, "")
}

// ReadingList renders the current user's bookmarks. Routed behind
// RequireAuth; never page-cached.
func (h *Public) ReadingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	depth := pagesParam(r, "pages")

	coll := fetch.NewCollection(h.svc.Bookmarks.List, h.feedPageSize, true)
	if err := loadPages(ctx, coll, depth); err != nil {
		h.apiError(w, r, err)
		return
	}

	data := h.pageData(r, "Reading list", "reading-list")
	data.Data["Posts"] = coll.Items()
	if coll.CanLoadMore() {
		data.Data["CanLoadMore"] = true
		data.Data["MorePath"] = fmt.Sprintf("/reading-list?pages=%d", depth+1)
	}

	h.serve(w, r, "reading_list", data, false, "")
}

// serve renders the page, optionally storing the bytes in the page cache
// before writing them out.
func (h *Public) serve(w http.ResponseWriter, r *http.Request, name string, data *render.PageData, cacheIt bool, key string) {
	out, err := h.render.Bytes(name, data)
	if err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cacheIt {
		h.pages.Set(r.Context(), key, out)
	}
	writeHTML(w, out)
}

// attachSidebar adds the category pills and popular tags. Both are
// best-effort; a failed sidebar never fails the page.
func (h *Public) attachSidebar(ctx context.Context, data *render.PageData) {
	v, err := h.resources.GetOrFetch(ctx, "categories:top", func(ctx context.Context) (any, error) {
		return h.svc.Taxonomy.TopCategories(ctx)
	})
	if cats, ok := v.([]models.Category); ok {
		data.Data["Categories"] = cats
	} else if err != nil {
		slog.Warn("top categories load failed", "error", err)
	}

	v, err = h.resources.GetOrFetch(ctx, "tags:popular", func(ctx context.Context) (any, error) {
		return h.svc.Taxonomy.PopularTags(ctx)
	})
	if tags, ok := v.([]models.Tag); ok {
		data.Data["PopularTags"] = tags
	} else if err != nil {
		slog.Warn("popular tags load failed", "error", err)
	}
}

// cachedPost fetches a post by slug through the shared resource cache,
// so concurrent renders of one post issue a single upstream request.
func cachedPost(ctx context.Context, resources *fetch.Cache, svc *api.Services, titleName string) (*models.Post, error) {
	v, err := resources.GetOrFetch(ctx, "post:"+titleName, func(ctx context.Context) (any, error) {
		return svc.Posts.GetBySlug(ctx, titleName)
	})
	if post, ok := v.(*models.Post); ok {
		return post, nil
	}
	return nil, err
}

// cachedProfile fetches a public profile through the shared resource cache.
func cachedProfile(ctx context.Context, resources *fetch.Cache, svc *api.Services, username string) (*models.User, error) {
	v, err := resources.GetOrFetch(ctx, "user:"+username, func(ctx context.Context) (any, error) {
		return svc.Auth.Profile(ctx, username)
	})
	if user, ok := v.(*models.User); ok {
		return user, nil
	}
	return nil, err
}

// cachedClapCount fetches a clap aggregate through the shared resource cache.
func cachedClapCount(ctx context.Context, resources *fetch.Cache, svc *api.Services, subject api.ClapSubject, id int64) (int64, error) {
	key := fmt.Sprintf("claps:%s:%d", subject, id)
	v, err := resources.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return svc.Claps.Count(ctx, subject, id)
	})
	if n, ok := v.(int64); ok {
		return n, nil
	}
	return 0, err
}
