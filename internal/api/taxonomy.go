// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"fmt"

	"inkfeed/internal/models"
)

// TaxonomyService wraps the tag and category endpoints. Both resources
// are small, unpaginated lists on the wire (bare arrays or envelopes).
type TaxonomyService struct {
	c *Client
}

// NewTaxonomyService creates a taxonomy service over the shared client.
func NewTaxonomyService(c *Client) *TaxonomyService {
	return &TaxonomyService{c: c}
}

// Tags fetches all tags.
func (s *TaxonomyService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.tagList(ctx, "/tags", nil)
}

// PopularTags fetches the tags with the most posts.
func (s *TaxonomyService) PopularTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagList(ctx, "/tags/popular", nil)
}

// SearchTags fetches tags matching the query prefix. Used by the
// composer's tag autocomplete.
func (s *TaxonomyService) SearchTags(ctx context.Context, query string) ([]models.Tag, error) {
	return s.tagList(ctx, "/tags/search", map[string]string{"q": query})
}

func (s *TaxonomyService) tagList(ctx context.Context, path string, params map[string]string) ([]models.Tag, error) {
	req := s.c.pub.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return decodeList[models.Tag](resp.Body()).Items, nil
}

// Categories fetches all admin-curated categories.
func (s *TaxonomyService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categoryList(ctx, "/categories")
}

// TopCategories fetches the categories surfaced as feed filter pills.
func (s *TaxonomyService) TopCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryList(ctx, "/categories_top")
}

func (s *TaxonomyService) categoryList(ctx context.Context, path string) ([]models.Category, error) {
	resp, err := s.c.pub.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return decodeList[models.Category](resp.Body()).Items, nil
}
