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
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/fetch"
	"inkfeed/internal/middleware"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// maxTracked bounds the mutation registries. When the cap is hit, idle
// entries are evicted; in-flight ones stay so the one-request-per-subject
// guard holds. Losing an idle entry only costs one redundant status fetch
// on the next action.
const maxTracked = 4096

// Actions serves the authenticated write endpoints: claps, bookmarks,
// follows, comments, replies. Every mutation runs through a per-user
// fetch.Toggle or fetch.Clapper kept in a registry, so a double-submit
// on one subject produces exactly one upstream call.
type Actions struct {
	core
	svc       *api.Services
	pages     *cache.PageCache
	resources *fetch.Cache

	mu       sync.Mutex
	toggles  map[string]*fetch.Toggle
	clappers map[string]*fetch.Clapper
}

// NewActions creates the write-action handlers.
func NewActions(rend *render.Renderer, sessions *session.Store, svc *api.Services, pages *cache.PageCache, resources *fetch.Cache) *Actions {
	return &Actions{
		core:      core{render: rend, sessions: sessions},
		svc:       svc,
		pages:     pages,
		resources: resources,
		toggles:   make(map[string]*fetch.Toggle),
		clappers:  make(map[string]*fetch.Clapper),
	}
}

// ClapPost records a clap on a post.
func (h *Actions) ClapPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	key := fmt.Sprintf("clap:%d:post:%d", sess.User.ID, post.ID)
	cl := h.clapperFor(key, post.ClapCount, func(ctx context.Context) (int64, error) {
		return h.svc.Claps.Clap(ctx, api.ClapPost, post.ID)
	})
	if err := cl.Clap(ctx); err != nil {
		h.actionError(w, r, err, post.URLPath(), "Could not record your clap. Please try again.")
		return
	}

	h.resources.Invalidate("post:" + post.TitleName)
	h.resources.Invalidate(fmt.Sprintf("claps:post:%d", post.ID))
	h.pages.InvalidatePost(ctx, post.TitleName)
	h.pages.InvalidateListings(ctx)
	redirectBack(w, r, post.URLPath(), "")
}

// ClapComment records a clap on a top-level comment.
func (h *Actions) ClapComment(w http.ResponseWriter, r *http.Request) {
	h.clapSubject(w, r, api.ClapComment)
}

// ClapReply records a clap on a reply.
func (h *Actions) ClapReply(w http.ResponseWriter, r *http.Request) {
	h.clapSubject(w, r, api.ClapReply)
}

func (h *Actions) clapSubject(w http.ResponseWriter, r *http.Request, subject api.ClapSubject) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "Invalid identifier.")
		return
	}

	seed, err := cachedClapCount(ctx, h.resources, h.svc, subject, id)
	if err != nil {
		slog.Warn("clap seed load failed", "subject", subject, "id", id, "error", err)
	}

	key := fmt.Sprintf("clap:%d:%s:%d", sess.User.ID, subject, id)
	cl := h.clapperFor(key, seed, func(ctx context.Context) (int64, error) {
		return h.svc.Claps.Clap(ctx, subject, id)
	})
	if err := cl.Clap(ctx); err != nil {
		h.actionError(w, r, err, "/", "Could not record your clap. Please try again.")
		return
	}

	h.resources.Invalidate(fmt.Sprintf("claps:%s:%d", subject, id))
	h.invalidateBackPost(ctx, r)
	redirectBack(w, r, "/", "")
}

// Bookmark toggles a post in the reading list. The first action on a
// subject seeds the toggle with the upstream status; later actions flip
// the tracked state.
func (h *Actions) Bookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	key := fmt.Sprintf("bookmark:%d:%d", sess.User.ID, post.ID)
	t, ok := h.toggle(key)
	if !ok {
		current, err := h.svc.Bookmarks.Status(ctx, post.ID)
		if err != nil {
			h.actionError(w, r, err, post.URLPath(), "Could not update your bookmark. Please try again.")
			return
		}
		t = h.toggleFor(key, current, func(ctx context.Context, active bool) (bool, error) {
			if active {
				return h.svc.Bookmarks.Remove(ctx, post.ID)
			}
			return h.svc.Bookmarks.Add(ctx, post.ID)
		})
	}

	if err := t.Toggle(ctx); err != nil {
		h.actionError(w, r, err, post.URLPath(), "Could not update your bookmark. Please try again.")
		return
	}

	redirectBack(w, r, post.URLPath(), "")
}

// Follow toggles following the named user.
func (h *Actions) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	username := chi.URLParam(r, "username")

	user, err := cachedProfile(ctx, h.resources, h.svc, username)
	if err != nil {
		h.apiError(w, r, err)
		return
	}
	if user.ID == sess.User.ID {
		redirectBack(w, r, user.ProfilePath(), "You cannot follow yourself.")
		return
	}

	key := fmt.Sprintf("follow:%d:%d", sess.User.ID, user.ID)
	t, ok := h.toggle(key)
	if !ok {
		current, err := h.svc.Follows.Following(ctx, user.ID)
		if err != nil {
			h.actionError(w, r, err, user.ProfilePath(), "Could not update your follow. Please try again.")
			return
		}
		t = h.toggleFor(key, current, func(ctx context.Context, active bool) (bool, error) {
			if active {
				return h.svc.Follows.Unfollow(ctx, user.ID)
			}
			return h.svc.Follows.Follow(ctx, user.ID)
		})
	}

	if err := t.Toggle(ctx); err != nil {
		h.actionError(w, r, err, user.ProfilePath(), "Could not update your follow. Please try again.")
		return
	}

	// Follower counts on the profile changed.
	h.resources.Invalidate("user:" + username)
	redirectBack(w, r, user.ProfilePath(), "")
}

// CommentCreate posts a top-level comment on a post.
func (h *Actions) CommentCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	content := r.FormValue("content")
	if msg := validateComment(content); msg != "" {
		redirectBack(w, r, post.URLPath(), msg)
		return
	}

	if _, err := h.svc.Comments.Create(ctx, post.ID, content); err != nil {
		if errors.Is(err, api.ErrEmptyComment) {
			redirectBack(w, r, post.URLPath(), "A comment cannot be empty.")
			return
		}
		h.actionError(w, r, err, post.URLPath(), "Could not post your comment. Please try again.")
		return
	}

	// The post's comment count and the comment list both changed.
	h.resources.Invalidate("post:" + post.TitleName)
	h.pages.InvalidatePost(ctx, post.TitleName)
	http.Redirect(w, r, post.URLPath()+"#comments", http.StatusSeeOther)
}

// ReplyCreate posts a reply under a top-level comment.
func (h *Actions) ReplyCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "Invalid identifier.")
		return
	}

	content := r.FormValue("content")
	if msg := validateComment(content); msg != "" {
		redirectBack(w, r, "/", msg)
		return
	}

	if _, err := h.svc.Comments.Reply(ctx, id, content); err != nil {
		if errors.Is(err, api.ErrEmptyComment) {
			redirectBack(w, r, "/", "A reply cannot be empty.")
			return
		}
		h.actionError(w, r, err, "/", "Could not post your reply. Please try again.")
		return
	}

	h.invalidateBackPost(ctx, r)
	redirectBack(w, r, "/", "")
}

// actionError surfaces a failed mutation. A 401 still tears down the
// session; everything else sends the user back with a notice, prior page
// state untouched.
func (h *Actions) actionError(w http.ResponseWriter, r *http.Request, err error, fallback, notice string) {
	if errors.Is(err, api.ErrUnauthorized) {
		h.apiError(w, r, err)
		return
	}
	slog.Warn("action failed", "path", r.URL.Path, "error", err)
	redirectBack(w, r, fallback, notice)
}

// invalidateBackPost drops the page-cache entry for the post page the
// action came from, when the "back" field points at one.
func (h *Actions) invalidateBackPost(ctx context.Context, r *http.Request) {
	back := r.FormValue("back")
	if titleName, ok := strings.CutPrefix(back, "/p/"); ok && titleName != "" {
		h.pages.InvalidatePost(ctx, titleName)
	}
}

func (h *Actions) toggle(key string) (*fetch.Toggle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.toggles[key]
	return t, ok
}

func (h *Actions) toggleFor(key string, active bool, do fetch.ToggleFunc) *fetch.Toggle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.toggles[key]; ok {
		return t
	}
	if len(h.toggles) >= maxTracked {
		for k, existing := range h.toggles {
			if !existing.Pending() {
				delete(h.toggles, k)
			}
		}
	}
	t := fetch.NewToggle(do, active)
	h.toggles[key] = t
	return t
}

func (h *Actions) clapperFor(key string, seed int64, do fetch.ClapFunc) *fetch.Clapper {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clappers[key]; ok {
		return c
	}
	if len(h.clappers) >= maxTracked {
		for k, existing := range h.clappers {
			if !existing.Pending() {
				delete(h.clappers, k)
			}
		}
	}
	c := fetch.NewClapper(do, seed)
	h.clappers[key] = c
	return c
}
