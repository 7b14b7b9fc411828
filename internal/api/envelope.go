// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// envelope.go normalizes the upstream's inconsistent list wrappers.
// The backend variously returns {data, total_count}, {posts, totalCount},
// or a bare JSON array for the same logical payload; everything coerces
// to a single Page shape here. Malformed responses degrade to an empty
// page — logged, never thrown — so one endpoint's schema drift cannot
// take down a whole page render.
package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// Page is the normalized list payload every service returns.
type Page[T any] struct {
	Items      []T
	TotalCount int

	// TotalWithReplies carries the backend's total_comment_reply
	// aggregate on comment listings. Zero elsewhere.
	TotalWithReplies int
}

// listEnvelope mirrors every wrapper shape the backend is known to emit.
// Exactly one of Data/Posts is set on wrapped responses.
type listEnvelope struct {
	Data              json.RawMessage `json:"data"`
	Posts             json.RawMessage `json:"posts"`
	TotalSnake        *int            `json:"total_count"`
	TotalCamel        *int            `json:"totalCount"`
	TotalCommentReply *int            `json:"total_comment_reply"`
}

// decodeList coerces any known envelope shape into a Page. Unknown or
// malformed shapes yield an empty page with zero counts.
func decodeList[T any](body []byte) Page[T] {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Page[T]{}
	}

	switch body[0] {
	case '[':
		// Bare array: no aggregate count on the wire, so the item count
		// is the best available total.
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			slog.Warn("api: malformed list response", "error", err)
			return Page[T]{}
		}
		return Page[T]{Items: items, TotalCount: len(items)}

	case '{':
		var env listEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			slog.Warn("api: malformed list envelope", "error", err)
			return Page[T]{}
		}

		raw := env.Data
		if raw == nil {
			raw = env.Posts
		}
		if raw == nil {
			slog.Warn("api: unknown list envelope shape")
			return Page[T]{}
		}

		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			slog.Warn("api: malformed list items", "error", err)
			return Page[T]{}
		}

		page := Page[T]{Items: items, TotalCount: len(items)}
		if env.TotalSnake != nil {
			page.TotalCount = *env.TotalSnake
		} else if env.TotalCamel != nil {
			page.TotalCount = *env.TotalCamel
		}
		if env.TotalCommentReply != nil {
			page.TotalWithReplies = *env.TotalCommentReply
		}
		return page
	}

	slog.Warn("api: unrecognized list response", "prefix", string(body[:min(len(body), 16)]))
	return Page[T]{}
}

// singleEnvelope mirrors the wrappers seen around single-entity responses.
type singleEnvelope struct {
	Data json.RawMessage `json:"data"`
	Post json.RawMessage `json:"post"`
}

// decodeOne coerces a single-entity response into its payload, whether the
// entity arrives bare or wrapped under "data"/"post".
func decodeOne[T any](body []byte, out *T) error {
	body = bytes.TrimSpace(body)

	var env singleEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}

	raw := env.Data
	if raw == nil {
		raw = env.Post
	}
	if raw == nil {
		// Bare entity.
		raw = body
	}
	return json.Unmarshal(raw, out)
}
