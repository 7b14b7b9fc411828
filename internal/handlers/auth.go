package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"inkfeed/internal/api"
	"inkfeed/internal/middleware"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// Auth serves login, registration, logout, and the Google OAuth relay.
// Credentials pass straight through to the upstream; only the returned
// bearer token and the user profile land in the session.
type Auth struct {
	core
	svc *api.Services
}

// NewAuth creates the auth handlers.
func NewAuth(rend *render.Renderer, sessions *session.Store, svc *api.Services) *Auth {
	return &Auth{
		core: core{render: rend, sessions: sessions},
		svc:  svc,
	}
}

// LoginPage renders the login form. Logged-in users go home.
func (h *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := h.render.Render(w, "login", h.pageData(r, "Log in", "")); err != nil {
		slog.Error("render login failed", "error", err)
	}
}

// LoginSubmit exchanges the form credentials for a token and opens a
// session.
func (h *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := h.svc.Auth.Login(ctx, api.Credentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	switch {
	case errors.Is(err, api.ErrMissingCredentials):
		h.loginNotice(w, r, "Email and password are required.")
		return
	case errors.Is(err, api.ErrUnauthorized):
		h.loginNotice(w, r, "Invalid email or password.")
		return
	case err != nil:
		var serr *api.StatusError
		if errors.As(err, &serr) && serr.Status < 500 {
			h.loginNotice(w, r, "Invalid email or password.")
			return
		}
		h.apiError(w, r, err)
		return
	}

	h.openSession(w, r, token)
}

// RegisterPage renders the sign-up form.
func (h *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := h.render.Render(w, "register", h.pageData(r, "Sign up", "")); err != nil {
		slog.Error("render register failed", "error", err)
	}
}

// RegisterSubmit creates an account upstream and opens a session with
// the returned token.
func (h *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := h.svc.Auth.Register(ctx, api.Registration{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	switch {
	case errors.Is(err, api.ErrMissingCredentials):
		http.Redirect(w, r, "/register?notice="+url.QueryEscape("Username, email, and password are required."), http.StatusSeeOther)
		return
	case err != nil:
		var serr *api.StatusError
		if errors.As(err, &serr) && serr.Status < 500 {
			http.Redirect(w, r, "/register?notice="+url.QueryEscape("That username or email is already taken."), http.StatusSeeOther)
			return
		}
		h.apiError(w, r, err)
		return
	}

	h.openSession(w, r, token)
}

// Logout destroys the session and returns to the feed.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("logout destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GoogleStart sends the browser to the upstream OAuth entry point.
func (h *Auth) GoogleStart(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.svc.Auth.GoogleAuthURL(), http.StatusSeeOther)
}

// GoogleCallback renders the relay page. The upstream redirects here
// with the token in the URL fragment, which only the browser can see;
// the page's script strips it from history and POSTs it to
// GoogleComplete.
func (h *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := h.render.Render(w, "google_callback", h.pageData(r, "Signing in", "")); err != nil {
		slog.Error("render google callback failed", "error", err)
	}
}

// GoogleComplete receives the relayed token and opens a session.
func (h *Auth) GoogleComplete(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if token == "" {
		h.loginNotice(w, r, "Sign-in was cancelled or failed. Please try again.")
		return
	}
	h.openSession(w, r, token)
}

// openSession validates the token by fetching its owner, then stores
// token and profile in a new session. A token the upstream rejects never
// becomes a session.
func (h *Auth) openSession(w http.ResponseWriter, r *http.Request, token string) {
	ctx := api.WithToken(r.Context(), token)

	user, err := h.svc.Auth.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.loginNotice(w, r, "Sign-in failed. Please try again.")
			return
		}
		h.apiError(w, r, err)
		return
	}

	if _, err := h.sessions.Create(ctx, w, &session.Data{Token: token, User: *user}); err != nil {
		slog.Error("session create failed", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "Could not start your session. Please try again.")
		return
	}

	slog.Info("session opened", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Auth) loginNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/login?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
