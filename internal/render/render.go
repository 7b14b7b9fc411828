// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the reader-facing
// pages. Templates are embedded in the binary; each page template is
// paired with the base layout, except standalone auth pages that carry
// their own document shell.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"inkfeed/internal/mention"
	"inkfeed/internal/session"
)

//go:embed templates/*.html
var pagesFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "feed", "reading-list")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms
	Flash     string         // One-time notice surfaced from the previous action
	Data      map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for reader pages.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":           true,
	"register":        true,
	"google_callback": true,
}

// pageTemplates lists every page paired with the base layout.
var pageTemplates = []string{
	"feed", "post", "search", "profile", "reading_list", "compose", "error",
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	funcs := template.FuncMap{
		// safeHTML marks upstream post content as pre-rendered HTML.
		// Post bodies come from the platform's own composer pipeline.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		// fmtDate renders timestamps the way post bylines show them.
		"fmtDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		// mentionTokens splits comment text into text/mention spans so
		// the template can link mentions to profiles.
		"mentionTokens": mention.Parse,
		"isMention": func(tok mention.Token) bool {
			return tok.Kind == mention.Mention
		},
	}

	for _, name := range pageTemplates {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(pagesFS,
			"templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	for name := range standaloneTemplates {
		tmpl, err := template.New(name + ".html").Funcs(funcs).ParseFS(pagesFS,
			"templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Bytes executes the named template into a byte slice, so callers can
// cache the rendered page before writing it out.
func (r *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	root := "base.html"
	if standaloneTemplates[name] {
		root = name + ".html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, root, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Render executes the named template and writes it as an HTML response.
func (r *Renderer) Render(w http.ResponseWriter, name string, data *PageData) error {
	out, err := r.Bytes(name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(out)
	return err
}
