// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"inkfeed/internal/models"
)

// BookmarkService wraps the reading-list endpoints. The bookmark relation
// itself is upstream-owned; the gateway only observes a boolean status
// and a paginated reading list.
type BookmarkService struct {
	c *Client
}

// NewBookmarkService creates a bookmark service over the shared client.
func NewBookmarkService(c *Client) *BookmarkService {
	return &BookmarkService{c: c}
}

// bookmarkBody is the add/remove request payload.
type bookmarkBody struct {
	PostID int64 `json:"post_id"`
}

// bookmarkStatus is the status read payload.
type bookmarkStatus struct {
	Bookmarked bool `json:"bookmarked"`
}

// Add saves a post to the reading list. Requires an authenticated context.
func (s *BookmarkService) Add(ctx context.Context, postID int64) (bool, error) {
	return s.post(ctx, "/api/bookmarks", postID)
}

// Remove drops a post from the reading list. Requires an authenticated
// context.
func (s *BookmarkService) Remove(ctx context.Context, postID int64) (bool, error) {
	return s.post(ctx, "/api/bookmarks/unbookmark", postID)
}

func (s *BookmarkService) post(ctx context.Context, path string, postID int64) (bool, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(bookmarkBody{PostID: postID}).
		Post(path)
	if err != nil {
		return false, fmt.Errorf("bookmark post %d: %w", postID, err)
	}
	if err := check(resp); err != nil {
		return false, fmt.Errorf("bookmark post %d: %w", postID, err)
	}

	var status bookmarkStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		slog.Warn("api: malformed bookmark response", "post_id", postID, "error", err)
		return false, nil
	}
	return status.Bookmarked, nil
}

// Status reports whether the current user has bookmarked the post.
// Requires an authenticated context.
func (s *BookmarkService) Status(ctx context.Context, postID int64) (bool, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetQueryParam("post_id", strconv.FormatInt(postID, 10)).
		Get("/api/bookmarks/status")
	if err != nil {
		return false, fmt.Errorf("bookmark status for post %d: %w", postID, err)
	}
	if err := check(resp); err != nil {
		return false, fmt.Errorf("bookmark status for post %d: %w", postID, err)
	}

	var status bookmarkStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		slog.Warn("api: malformed bookmark status response", "post_id", postID, "error", err)
		return false, nil
	}
	return status.Bookmarked, nil
}

// List fetches one page of the current user's reading list. Same envelope
// shape as the posts feed. Requires an authenticated context.
func (s *BookmarkService) List(ctx context.Context, page, limit int) (Page[models.Post], error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/api/bookmarks")
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list bookmarks: %w", err)
	}
	if err := check(resp); err != nil {
		return Page[models.Post]{}, fmt.Errorf("list bookmarks: %w", err)
	}
	return decodeList[models.Post](resp.Body()), nil
}
