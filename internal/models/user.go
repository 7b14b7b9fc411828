package models

import "time"

// User is an author or reader profile. Username is unique and appears in
// profile URLs; DisplayName is what cards and bylines render.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	Bio            string    `json:"bio"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Name returns the display name, falling back to the username when the
// profile has never been edited.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// ProfilePath returns the reader path for the user's profile page.
func (u User) ProfilePath() string {
	return "/u/" + u.Username
}
