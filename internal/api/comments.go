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

// ErrEmptyComment is returned before any network call when a submission
// has no content.
var ErrEmptyComment = errors.New("api: comment content is required")

// CommentService wraps the comment and reply endpoints.
type CommentService struct {
	c *Client
}

// NewCommentService creates a comment service over the shared client.
func NewCommentService(c *Client) *CommentService {
	return &CommentService{c: c}
}

// commentBody is the create/reply request payload.
type commentBody struct {
	Content string `json:"content"`
}

// ListForPost fetches one page of top-level comments for a post. The
// returned page carries both the top-level total and the backend's
// total-including-replies aggregate.
func (s *CommentService) ListForPost(ctx context.Context, postID int64, page, limit int) (Page[models.Comment], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/posts/" + strconv.FormatInt(postID, 10) + "/comments")
	if err != nil {
		return Page[models.Comment]{}, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	if err := check(resp); err != nil {
		return Page[models.Comment]{}, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return decodeList[models.Comment](resp.Body()), nil
}

// ListReplies fetches one page of replies under a top-level comment.
// Replies are loaded only when a thread is expanded.
func (s *CommentService) ListReplies(ctx context.Context, commentID int64, page, limit int) (Page[models.Comment], error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/comments/" + strconv.FormatInt(commentID, 10) + "/replies")
	if err != nil {
		return Page[models.Comment]{}, fmt.Errorf("list replies for comment %d: %w", commentID, err)
	}
	if err := check(resp); err != nil {
		return Page[models.Comment]{}, fmt.Errorf("list replies for comment %d: %w", commentID, err)
	}
	return decodeList[models.Comment](resp.Body()), nil
}

// Create posts a new top-level comment. Empty content is rejected before
// any network call. Requires an authenticated context.
func (s *CommentService) Create(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(commentBody{Content: content}).
		Post("/api/posts/" + strconv.FormatInt(postID, 10) + "/comments")
	if err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}

	var comment models.Comment
	if err := decodeOne(resp.Body(), &comment); err != nil {
		return nil, fmt.Errorf("create comment on post %d: decode: %w", postID, err)
	}
	return &comment, nil
}

// Reply posts a reply under a top-level comment. Requires an
// authenticated context.
func (s *CommentService) Reply(ctx context.Context, commentID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(commentBody{Content: content}).
		Post("/api/comments/" + strconv.FormatInt(commentID, 10) + "/replies")
	if err != nil {
		return nil, fmt.Errorf("reply to comment %d: %w", commentID, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("reply to comment %d: %w", commentID, err)
	}

	var comment models.Comment
	if err := decodeOne(resp.Body(), &comment); err != nil {
		return nil, fmt.Errorf("reply to comment %d: decode: %w", commentID, err)
	}
	return &comment, nil
}
