// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api is the typed client for the upstream blogging REST API.
// It exposes one service per resource (posts, comments, claps, bookmarks,
// follows, taxonomy, auth, images) over two HTTP client flavors: a public
// client for unauthenticated reads and a private client that attaches a
// bearer token carried in the request context.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrUnauthorized is returned when the upstream rejects the bearer
	// token (HTTP 401). Callers must clear the session; private requests
	// are never silently retried through the public client.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("api: not found")
)

// StatusError carries an unexpected upstream status for error responses
// that are neither 401 nor 404.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: upstream status %d: %s", e.Status, e.Body)
}

// tokenKey is the context key type for the per-request bearer token.
type tokenKey struct{}

// WithToken returns a context carrying the bearer token for private
// requests. The gateway serves many sessions, so the token travels with
// the request context rather than living on the client.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromCtx extracts the bearer token from the context. Returns ""
// when no token is set — the request then proceeds unauthenticated and
// the upstream decides whether to reject it.
func TokenFromCtx(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Client bundles the public and private resty clients pointed at the
// upstream base URL. No retry, no circuit breaking — failures surface
// as returned errors to the caller.
type Client struct {
	pub     *resty.Client
	priv    *resty.Client
	baseURL string
}

// New creates a Client for the given upstream base URL.
func New(baseURL string, timeout time.Duration) *Client {
	pub := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	priv := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	// Attach the bearer token from the request context, if present.
	priv.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		if tok := TokenFromCtx(r.Context()); tok != "" {
			r.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	return &Client{pub: pub, priv: priv, baseURL: baseURL}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// check maps upstream error statuses to sentinel errors. A nil return
// means the response carried a 2xx status.
func check(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.IsError():
		return &StatusError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}
