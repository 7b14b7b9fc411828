// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers groups the HTTP handlers for the reader-facing site:
// public pages, auth flows, write actions, and the composer. All data
// comes from the upstream REST API through the fetch layer; nothing is
// stored locally beyond sessions and rendered-page caches.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"inkfeed/internal/api"
	"inkfeed/internal/fetch"
	"inkfeed/internal/middleware"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// maxPages caps how many accumulated pages a single request may ask for,
// bounding upstream fan-out from a crafted query string.
const maxPages = 25

// core carries the dependencies every handler group shares.
type core struct {
	render   *render.Renderer
	sessions *session.Store
}

// pageData assembles the common template payload for a request.
func (c *core) pageData(r *http.Request, title, section string) *render.PageData {
	return &render.PageData{
		Title:     title,
		Section:   section,
		Session:   middleware.SessionFromCtx(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r),
		Flash:     r.URL.Query().Get("notice"),
		Data:      map[string]any{},
	}
}

// apiError maps an upstream error onto a response. A 401 clears the
// session and sends the user to the login page — the token is dead and
// the request is never silently retried unauthenticated. 404 renders the
// not-found page; anything else is a 500 with the prior page intact on
// the next load.
func (c *core) apiError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if derr := c.sessions.Destroy(r.Context(), w, r); derr != nil {
			slog.Warn("session destroy after 401 failed", "error", derr)
		}
		http.Redirect(w, r, "/login?notice="+url.QueryEscape("Your session expired. Please log in again."), http.StatusSeeOther)
	case errors.Is(err, api.ErrNotFound):
		c.renderError(w, r, http.StatusNotFound, "Not found", "That page does not exist, or was removed.")
	default:
		slog.Error("upstream request failed", "error", err, "path", r.URL.Path)
		c.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The upstream service is unavailable. Please try again.")
	}
}

// renderError renders the error page with the given status.
func (c *core) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	data := c.pageData(r, heading, "")
	data.Data["Heading"] = heading
	data.Data["Message"] = message

	out, err := c.render.Bytes("error", data)
	if err != nil {
		slog.Error("render error page failed", "error", err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

// writeHTML writes a rendered page with the HTML content type.
func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b)
}

// pagesParam reads an accumulation depth from the query string,
// defaulting to 1 and clamping to [1, maxPages].
func pagesParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxPages {
		return maxPages
	}
	return n
}

// redirectBack sends the user to the form's "back" target, or fallback.
// An optional notice is surfaced as a one-time flash on the destination.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback, notice string) {
	target := r.FormValue("back")
	if target == "" || target[0] != '/' {
		target = fallback
	}
	if notice != "" {
		sep := "?"
		if u, err := url.Parse(target); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target += sep + "notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// loadPages drives a collection to the requested accumulation depth:
// page 1 via Load, the rest via LoadMore until the collection reports
// exhaustion.
func loadPages[T fetch.Keyer](ctx context.Context, coll *fetch.Collection[T], pages int) error {
	if err := coll.Load(ctx); err != nil {
		return err
	}
	for i := 1; i < pages; i++ {
		if !coll.CanLoadMore() {
			break
		}
		if err := coll.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}
