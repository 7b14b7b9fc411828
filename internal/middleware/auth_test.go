package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"inkfeed/internal/api"
	"inkfeed/internal/models"
	"inkfeed/internal/session"
)

func testSessionStore(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return session.NewStore(client, false)
}

// TestLoadSessionPutsTokenOnContext verifies that a live session exposes
// both the session data and the bearer token to downstream handlers.
func TestLoadSessionPutsTokenOnContext(t *testing.T) {
	store := testSessionStore(t)

	w := httptest.NewRecorder()
	_, err := store.Create(context.Background(), w, &session.Data{
		Token: "tok123",
		User:  models.User{ID: 7, Username: "alice"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var gotSess *session.Data
	var gotToken string
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSess = SessionFromCtx(r.Context())
		gotToken = api.TokenFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotSess == nil || gotSess.User.Username != "alice" {
		t.Errorf("session from ctx: got %+v, want alice's session", gotSess)
	}
	if gotToken != "tok123" {
		t.Errorf("token from ctx: got %q, want tok123", gotToken)
	}
}

func TestLoadSessionWithoutCookie(t *testing.T) {
	store := testSessionStore(t)

	var called bool
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SessionFromCtx(r.Context()) != nil {
			t.Error("session without cookie: got data, want nil")
		}
		if api.TokenFromCtx(r.Context()) != "" {
			t.Error("token without session: got value, want empty")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("handler not reached")
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reading-list", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect: got %q, want /login", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	var called bool
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/reading-list", nil)
	ctx := context.WithValue(req.Context(), SessionKey, &session.Data{Token: "t"})
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	if !called {
		t.Error("handler not reached with a session")
	}
}
