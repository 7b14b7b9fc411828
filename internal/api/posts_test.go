// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestPostListQueryParams(t *testing.T) {
	var gotPath, gotPage, gotLimit string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data":[{"id":1,"title":"One"}],"total_count":1}`))
	})
	svc := NewPostService(c)

	page, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/posts" {
		t.Errorf("path: got %q, want /posts", gotPath)
	}
	if gotPage != "3" || gotLimit != "10" {
		t.Errorf("query: got page=%q limit=%q, want 3/10", gotPage, gotLimit)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "One" {
		t.Errorf("items: got %+v, want one post titled One", page.Items)
	}
}

func TestPostGetBySlugPath(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":9,"title":"Hello","title_name":"hello"}`))
	})
	svc := NewPostService(c)

	post, err := svc.GetBySlug(context.Background(), "hello")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if gotPath != "/p/hello" {
		t.Errorf("path: got %q, want /p/hello", gotPath)
	}
	if post.URLPath() != "/p/hello" {
		t.Errorf("URLPath: got %q, want /p/hello", post.URLPath())
	}
}

// TestPostCreateRejectsEmptyTitleBeforeNetwork verifies the pre-network
// guard: no request may leave the process for an invalid draft.
func TestPostCreateRejectsEmptyTitleBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	svc := NewPostService(c)

	_, err := svc.Create(context.Background(), PostDraft{Title: "   ", Content: "<p>x</p>"})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Create error: got %v, want ErrEmptyTitle", err)
	}
	if called {
		t.Error("upstream was called for an empty title")
	}
}

func TestCommentCreateRejectsEmptyContentBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	svc := NewCommentService(c)

	_, err := svc.Create(context.Background(), 1, "  \n ")
	if !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("Create error: got %v, want ErrEmptyComment", err)
	}
	if _, err := svc.Reply(context.Background(), 1, ""); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("Reply error: got %v, want ErrEmptyComment", err)
	}
	if called {
		t.Error("upstream was called for empty content")
	}
}

func TestCommentListForPostCarriesReplyAggregate(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[{"id":1,"content":"hi"}],"total_count":1,"total_comment_reply":4}`))
	})
	svc := NewCommentService(c)

	page, err := svc.ListForPost(context.Background(), 7, 1, 5)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if gotPath != "/posts/7/comments" {
		t.Errorf("path: got %q, want /posts/7/comments", gotPath)
	}
	if page.TotalWithReplies != 4 {
		t.Errorf("TotalWithReplies: got %d, want 4", page.TotalWithReplies)
	}
}

func TestClapSubjectPaths(t *testing.T) {
	tests := []struct {
		subject ClapSubject
		want    string
	}{
		{ClapPost, "/api/post/5/clap"},
		{ClapComment, "/api/comment/5/clap"},
		{ClapReply, "/api/reply/5/clap"},
	}

	for _, tt := range tests {
		t.Run(string(tt.subject), func(t *testing.T) {
			var gotPath string
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte(`{"clap_count":6}`))
			})
			svc := NewClapService(c)

			count, err := svc.Clap(WithToken(context.Background(), "t"), tt.subject, 5)
			if err != nil {
				t.Fatalf("Clap: %v", err)
			}
			if gotPath != tt.want {
				t.Errorf("path: got %q, want %q", gotPath, tt.want)
			}
			if count != 6 {
				t.Errorf("count: got %d, want 6", count)
			}
		})
	}
}

// TestClapMalformedResponseIsError verifies that an unparseable clap
// mutation response fails instead of reporting a zero count, so callers
// roll back their optimistic bump rather than settling on 0.
func TestClapMalformedResponseIsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})
	svc := NewClapService(c)

	if _, err := svc.Clap(WithToken(context.Background(), "t"), ClapPost, 5); err == nil {
		t.Error("Clap with malformed body: got nil error, want decode error")
	}
}

func TestBookmarkRemovePath(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"bookmarked":false}`))
	})
	svc := NewBookmarkService(c)

	bookmarked, err := svc.Remove(WithToken(context.Background(), "t"), 3)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if gotPath != "/api/bookmarks/unbookmark" {
		t.Errorf("path: got %q, want /api/bookmarks/unbookmark", gotPath)
	}
	if bookmarked {
		t.Error("bookmarked after remove: got true, want false")
	}
}

func TestFollowTogglePaths(t *testing.T) {
	var gotMethod, gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"following":true}`))
	})
	svc := NewFollowService(c)
	ctx := WithToken(context.Background(), "t")

	if _, err := svc.Follow(ctx, 12); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/follows/12" {
		t.Errorf("Follow request: got %s %s, want POST /api/follows/12", gotMethod, gotPath)
	}

	if _, err := svc.Unfollow(ctx, 12); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Unfollow method: got %s, want DELETE", gotMethod)
	}
}

func TestAuthLoginRejectsMissingCredentials(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	svc := NewAuthService(c)

	if _, err := svc.Login(context.Background(), Credentials{Email: "", Password: "x"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("Login error: got %v, want ErrMissingCredentials", err)
	}
	if called {
		t.Error("upstream was called with missing credentials")
	}
}
