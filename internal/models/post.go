// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the upstream API's entities as the gateway sees
// them. Field tags follow the upstream wire names; the structs carry no
// behavior beyond identity and URL helpers.
package models

import (
	"strconv"
	"time"
)

// Post is a published article. Content is pre-rendered HTML from the
// platform's composer pipeline; Preview is the plain-text teaser shown
// on feed cards.
type Post struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	TitleName    string     `json:"title_name"`
	Content      string     `json:"content"`
	Preview      string     `json:"preview"`
	ImageURL     string     `json:"image_url"`
	Author       User       `json:"user"`
	Categories   []Category `json:"categories"`
	Tags         []Tag      `json:"tags"`
	ViewCount    int64      `json:"view_count"`
	ClapCount    int64      `json:"clap_count"`
	CommentCount int64      `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Key returns the identity used for cross-page deduplication.
func (p Post) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

// URLPath returns the reader path for the post page.
func (p Post) URLPath() string {
	return "/p/" + p.TitleName
}
