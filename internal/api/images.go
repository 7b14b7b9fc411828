// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ImageService proxies composer uploads to the upstream image endpoint.
// The gateway streams the multipart form through; it never stores files.
type ImageService struct {
	c *Client
}

// NewImageService creates an image service over the shared client.
func NewImageService(c *Client) *ImageService {
	return &ImageService{c: c}
}

// uploadEnvelope is the payload returned by the upload endpoint.
type uploadEnvelope struct {
	URL string `json:"url"`
}

// Upload sends an image to POST /images/upload/v2/{kind} as a multipart
// form and returns the public URL. kind is "cover" or "inline". Requires
// an authenticated context.
func (s *ImageService) Upload(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		SetFileReader("image", filename, r).
		Post("/images/upload/v2/" + kind)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := check(resp); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	var env uploadEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", fmt.Errorf("upload image: decode: %w", err)
	}
	return env.URL, nil
}
