// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"time"
)

// Comment is a top-level comment or a reply. Replies carry the parent
// comment's id; a top-level comment may embed its already-loaded replies.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	Author    User      `json:"user"`
	ClapCount int64     `json:"clap_count"`
	Replies   []Comment `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the identity used for cross-page deduplication.
func (c Comment) Key() string {
	return strconv.FormatInt(c.ID, 10)
}

// IsReply reports whether the comment sits under a parent.
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}
