// Package router assembles the HTTP route tree and middleware chains.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/handlers"
	"inkfeed/internal/middleware"
	"inkfeed/internal/session"
)

// Handlers groups every handler set the router mounts.
type Handlers struct {
	Public  *handlers.Public
	Auth    *handlers.Auth
	Actions *handlers.Actions
	Compose *handlers.Compose
}

// New assembles the route tree. Public reads sit behind the session
// loader only; write actions additionally require a session and are
// rate limited per client.
func New(h Handlers, sessions *session.Store) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.CSRF)

	r.Get("/health", h.Public.Health)

	// Public reader pages.
	r.Get("/", h.Public.Feed)
	r.Get("/p/{titleName}", h.Public.Post)
	r.Get("/tag/{slug}", h.Public.Tag)
	r.Get("/category/{slug}", h.Public.Category)
	r.Get("/search", h.Public.Search)
	r.Get("/u/{username}", h.Public.Profile)

	// Auth flows.
	r.Get("/login", h.Auth.LoginPage)
	r.Post("/login", h.Auth.LoginSubmit)
	r.Get("/register", h.Auth.RegisterPage)
	r.Post("/register", h.Auth.RegisterSubmit)
	r.Post("/logout", h.Auth.Logout)
	r.Get("/auth/google", h.Auth.GoogleStart)
	r.Get("/auth/google/callback", h.Auth.GoogleCallback)
	r.Post("/auth/google/complete", h.Auth.GoogleComplete)

	// Authenticated surfaces. Writes share one sliding-window limiter so
	// a stuck form resubmit cannot hammer the upstream.
	writeLimiter := middleware.NewRateLimiter(30, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/reading-list", h.Public.ReadingList)
		r.Get("/compose", h.Compose.Page)
		r.Get("/p/{titleName}/edit", h.Compose.EditPage)

		r.Group(func(r chi.Router) {
			r.Use(writeLimiter.Middleware)

			r.Post("/compose", h.Compose.Submit)
			r.Post("/p/{titleName}/edit", h.Compose.EditSubmit)
			r.Post("/p/{titleName}/delete", h.Compose.Delete)

			r.Post("/p/{titleName}/clap", h.Actions.ClapPost)
			r.Post("/p/{titleName}/bookmark", h.Actions.Bookmark)
			r.Post("/p/{titleName}/comments", h.Actions.CommentCreate)
			r.Post("/u/{username}/follow", h.Actions.Follow)
			r.Post("/comments/{id}/clap", h.Actions.ClapComment)
			r.Post("/comments/{id}/reply", h.Actions.ReplyCreate)
			r.Post("/replies/{id}/clap", h.Actions.ClapReply)
		})
	})

	return r
}
