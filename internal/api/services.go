// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

// Services bundles every resource service over one shared client pair.
type Services struct {
	Posts     *PostService
	Comments  *CommentService
	Claps     *ClapService
	Bookmarks *BookmarkService
	Follows   *FollowService
	Taxonomy  *TaxonomyService
	Auth      *AuthService
	Images    *ImageService
}

// NewServices wires all resource services over the given client.
func NewServices(c *Client) *Services {
	return &Services{
		Posts:     NewPostService(c),
		Comments:  NewCommentService(c),
		Claps:     NewClapService(c),
		Bookmarks: NewBookmarkService(c),
		Follows:   NewFollowService(c),
		Taxonomy:  NewTaxonomyService(c),
		Auth:      NewAuthService(c),
		Images:    NewImageService(c),
	}
}
