// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders sets the response headers every reader page carries.
// The pages here are plain server-rendered HTML with cookie-backed
// sessions, so the set leans on framing and referrer controls; there is
// no Content-Security-Policy because the OAuth relay page runs an
// inline script.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Upstream-hosted images and user uploads are served with exact
		// content types; never let the browser sniff past them.
		h.Set("X-Content-Type-Options", "nosniff")

		// Action forms (clap, bookmark, follow) must not be framable from
		// another origin.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// The legacy XSS auditor does more harm than good; keep it off.
		h.Set("X-XSS-Protection", "0")

		// Post URLs carry readable slugs; send only the origin cross-site.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
