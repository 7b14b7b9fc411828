// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"inkfeed/internal/models"
)

// ErrEmptyTitle is returned before any network call when a post draft has
// no title.
var ErrEmptyTitle = errors.New("api: post title is required")

// PostService wraps the post endpoints of the upstream API.
type PostService struct {
	c *Client
}

// NewPostService creates a post service over the shared client.
func NewPostService(c *Client) *PostService {
	return &PostService{c: c}
}

// PostDraft is the body for create and update calls. Content is HTML;
// the composer converts Markdown before submission.
type PostDraft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImageTitle string   `json:"image_title"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// List fetches one page of the public feed.
func (s *PostService) List(ctx context.Context, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/posts")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}

// ListByCategory fetches one feed page filtered to a category slug.
func (s *PostService) ListByCategory(ctx context.Context, slug string, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("category", slug).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/posts")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by category: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by category: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}

// ListByTag fetches one feed page filtered to a tag slug.
func (s *PostService) ListByTag(ctx context.Context, slug string, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("tag", slug).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/posts")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by tag: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by tag: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}

// ListByAuthor fetches one page of a user's published posts.
func (s *PostService) ListByAuthor(ctx context.Context, username string, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/users/" + username + "/posts")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by author: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts by author: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}

// Search fetches one page of full-text search results.
func (s *PostService) Search(ctx context.Context, query string, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/posts/search")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("search posts: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("search posts: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}

// Get fetches a single post by numeric id.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		Get("/posts/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	var post models.Post
	if err := decodeOne(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("get post %d: decode: %w", id, err)
	}
	return &post, nil
}

// GetBySlug fetches a single post by its URL slug (title_name).
func (s *PostService) GetBySlug(ctx context.Context, titleName string) (*models.Post, error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		Get("/p/" + titleName)
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", titleName, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("get post %q: %w", titleName, err)
	}

	var post models.Post
	if err := decodeOne(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("get post %q: decode: %w", titleName, err)
	}
	return &post, nil
}

// Create publishes a new post. Requires an authenticated context.
func (s *PostService) Create(ctx context.Context, draft PostDraft) (*models.Post, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrEmptyTitle
	}

	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(draft).
		Post("/api/posts")
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	var post models.Post
	if err := decodeOne(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("create post: decode: %w", err)
	}
	return &post, nil
}

// Update replaces an existing post. Requires an authenticated context.
func (s *PostService) Update(ctx context.Context, id int64, draft PostDraft) (*models.Post, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrEmptyTitle
	}

	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(draft).
		Put("/api/posts/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	var post models.Post
	if err := decodeOne(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("update post %d: decode: %w", id, err)
	}
	return &post, nil
}

// Delete removes a post. Requires an authenticated context.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Delete("/api/posts/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if err := check(resp); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
