// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/fetch"
	"inkfeed/internal/markdown"
	"inkfeed/internal/middleware"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// maxUploadBytes caps the multipart form held in memory during a
// composer submission.
const maxUploadBytes = 10 << 20

// Compose serves the post editor: new drafts, edits, and deletion.
// Authors write Markdown; the upstream wire contract carries HTML, so
// the body is converted before submission. Cover images stream through
// to the upstream image endpoint and are never stored locally.
type Compose struct {
	core
	svc       *api.Services
	pages     *cache.PageCache
	resources *fetch.Cache
}

// NewCompose creates the composer handlers.
func NewCompose(rend *render.Renderer, sessions *session.Store, svc *api.Services, pages *cache.PageCache, resources *fetch.Cache) *Compose {
	return &Compose{
		core:      core{render: rend, sessions: sessions},
		svc:       svc,
		pages:     pages,
		resources: resources,
	}
}

// Page renders the empty editor.
func (h *Compose) Page(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, "New post", "compose")
	data.Data["Action"] = "/compose"
	h.attachCategories(r, data)

	if err := h.render.Render(w, "compose", data); err != nil {
		slog.Error("render compose failed", "error", err)
	}
}

// Submit publishes a new post.
func (h *Compose) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft, msg := h.readDraft(r)
	if msg != "" {
		http.Redirect(w, r, "/compose?notice="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}

	post, err := h.svc.Posts.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, api.ErrEmptyTitle) {
			http.Redirect(w, r, "/compose?notice="+url.QueryEscape("A title is required."), http.StatusSeeOther)
			return
		}
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Error("post create failed", "error", err)
		http.Redirect(w, r, "/compose?notice="+url.QueryEscape("Could not publish your post. Please try again."), http.StatusSeeOther)
		return
	}

	h.pages.InvalidateListings(ctx)
	slog.Info("post published", "post_id", post.ID, "title_name", post.TitleName)
	http.Redirect(w, r, post.URLPath(), http.StatusSeeOther)
}

// EditPage renders the editor pre-filled with an existing post. Only the
// author may open it.
func (h *Compose) EditPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}
	if post.Author.ID != sess.User.ID {
		h.renderError(w, r, http.StatusForbidden, "Not yours", "Only the author can edit this post.")
		return
	}

	data := h.pageData(r, "Edit post", "compose")
	data.Data["Post"] = post
	data.Data["Action"] = post.URLPath() + "/edit"
	data.Data["Body"] = post.Content
	data.Data["TagLine"] = tagLine(post)
	h.attachCategories(r, data)

	if err := h.render.Render(w, "compose", data); err != nil {
		slog.Error("render edit failed", "error", err)
	}
}

// EditSubmit updates an existing post.
func (h *Compose) EditSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}
	if post.Author.ID != sess.User.ID {
		h.renderError(w, r, http.StatusForbidden, "Not yours", "Only the author can edit this post.")
		return
	}

	editPath := post.URLPath() + "/edit"
	draft, msg := h.readDraft(r)
	if msg != "" {
		http.Redirect(w, r, editPath+"?notice="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}
	if draft.ImageTitle == "" && post.ImageURL != "" {
		// No new upload; keep the existing cover.
		draft.ImageTitle = path.Base(post.ImageURL)
	}

	updated, err := h.svc.Posts.Update(ctx, post.ID, draft)
	if err != nil {
		if errors.Is(err, api.ErrEmptyTitle) {
			http.Redirect(w, r, editPath+"?notice="+url.QueryEscape("A title is required."), http.StatusSeeOther)
			return
		}
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Error("post update failed", "post_id", post.ID, "error", err)
		http.Redirect(w, r, editPath+"?notice="+url.QueryEscape("Could not save your changes. Please try again."), http.StatusSeeOther)
		return
	}

	// The slug can change when the title does; drop both cache keys.
	h.resources.Invalidate("post:" + post.TitleName)
	h.resources.Invalidate("post:" + updated.TitleName)
	h.pages.InvalidatePost(ctx, post.TitleName)
	h.pages.InvalidatePost(ctx, updated.TitleName)
	h.pages.InvalidateListings(ctx)
	http.Redirect(w, r, updated.URLPath(), http.StatusSeeOther)
}

// Delete removes a post. Only the author may delete.
func (h *Compose) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	titleName := chi.URLParam(r, "titleName")

	post, err := cachedPost(ctx, h.resources, h.svc, titleName)
	if err != nil {
		h.apiError(w, r, err)
		return
	}
	if post.Author.ID != sess.User.ID {
		h.renderError(w, r, http.StatusForbidden, "Not yours", "Only the author can delete this post.")
		return
	}

	if err := h.svc.Posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.apiError(w, r, err)
			return
		}
		slog.Error("post delete failed", "post_id", post.ID, "error", err)
		redirectBack(w, r, post.URLPath(), "Could not delete the post. Please try again.")
		return
	}

	h.resources.Invalidate("post:" + post.TitleName)
	h.pages.InvalidatePost(ctx, post.TitleName)
	h.pages.InvalidateListings(ctx)
	slog.Info("post deleted", "post_id", post.ID)
	http.Redirect(w, r, "/?notice="+url.QueryEscape("Post deleted."), http.StatusSeeOther)
}

// readDraft parses the multipart editor form into an upstream draft:
// validates title and body, converts Markdown to HTML, and uploads a
// cover image when one was attached. A non-empty message means the form
// was rejected before any write.
func (h *Compose) readDraft(r *http.Request) (api.PostDraft, string) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return api.PostDraft{}, "The submission was too large or malformed."
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")
	if msg := validatePost(title, body); msg != "" {
		return api.PostDraft{}, msg
	}

	html, err := markdown.ToHTML(body)
	if err != nil {
		slog.Error("markdown conversion failed", "error", err)
		return api.PostDraft{}, "Could not render the post body."
	}

	draft := api.PostDraft{
		Title:      title,
		Content:    html,
		Categories: r.Form["categories"],
		Tags:       splitTags(r.FormValue("tags")),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		uploadedURL, err := h.svc.Images.Upload(ctx, "cover", header.Filename, file)
		if err != nil {
			slog.Error("cover upload failed", "filename", header.Filename, "error", err)
			return api.PostDraft{}, "Could not upload the cover image."
		}
		draft.ImageTitle = path.Base(uploadedURL)
	}

	return draft, ""
}

// attachCategories loads the category options for the editor's picker.
func (h *Compose) attachCategories(r *http.Request, data *render.PageData) {
	cats, err := h.svc.Taxonomy.Categories(r.Context())
	if err != nil {
		slog.Warn("categories load failed", "error", err)
		return
	}
	data.Data["Categories"] = cats
}
