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
)

// FollowService wraps the follow endpoints, keyed by the target user id.
type FollowService struct {
	c *Client
}

// NewFollowService creates a follow service over the shared client.
func NewFollowService(c *Client) *FollowService {
	return &FollowService{c: c}
}

// followStatus is the status payload shared by all follow calls.
type followStatus struct {
	Following bool `json:"following"`
}

// Following reports whether the current user follows the target user.
// Requires an authenticated context.
func (s *FollowService) Following(ctx context.Context, userID int64) (bool, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Get("/api/follows/" + strconv.FormatInt(userID, 10))
	if err != nil {
		return false, fmt.Errorf("follow status for user %d: %w", userID, err)
	}
	if err := check(resp); err != nil {
		return false, fmt.Errorf("follow status for user %d: %w", userID, err)
	}
	return decodeFollow(resp.Body(), userID), nil
}

// Follow starts following the target user. Requires an authenticated
// context.
func (s *FollowService) Follow(ctx context.Context, userID int64) (bool, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Post("/api/follows/" + strconv.FormatInt(userID, 10))
	if err != nil {
		return false, fmt.Errorf("follow user %d: %w", userID, err)
	}
	if err := check(resp); err != nil {
		return false, fmt.Errorf("follow user %d: %w", userID, err)
	}
	return decodeFollow(resp.Body(), userID), nil
}

// Unfollow stops following the target user. Requires an authenticated
// context.
func (s *FollowService) Unfollow(ctx context.Context, userID int64) (bool, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Delete("/api/follows/" + strconv.FormatInt(userID, 10))
	if err != nil {
		return false, fmt.Errorf("unfollow user %d: %w", userID, err)
	}
	if err := check(resp); err != nil {
		return false, fmt.Errorf("unfollow user %d: %w", userID, err)
	}
	return decodeFollow(resp.Body(), userID), nil
}

func decodeFollow(body []byte, userID int64) bool {
	var status followStatus
	if err := json.Unmarshal(body, &status); err != nil {
		slog.Warn("api: malformed follow response", "user_id", userID, "error", err)
		return false
	}
	return status.Following
}
