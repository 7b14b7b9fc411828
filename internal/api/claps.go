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

// ClapSubject identifies what kind of entity a clap count belongs to.
type ClapSubject string

const (
	ClapPost    ClapSubject = "post"
	ClapComment ClapSubject = "comment"
	ClapReply   ClapSubject = "reply"
)

// ClapService wraps the clap endpoints. Claps are anonymous-to-client:
// only the aggregate count per (subject, id) is ever visible.
type ClapService struct {
	c *Client
}

// NewClapService creates a clap service over the shared client.
func NewClapService(c *Client) *ClapService {
	return &ClapService{c: c}
}

// clapEnvelope is the count payload returned by both read and clap calls.
type clapEnvelope struct {
	ClapCount int64 `json:"clap_count"`
}

// Count reads the aggregate clap count for a subject.
func (s *ClapService) Count(ctx context.Context, subject ClapSubject, id int64) (int64, error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetQueryParam("type", string(subject)).
		SetQueryParam("id", strconv.FormatInt(id, 10)).
		Get("/api/claps")
	if err != nil {
		return 0, fmt.Errorf("clap count %s/%d: %w", subject, id, err)
	}
	if err := check(resp); err != nil {
		return 0, fmt.Errorf("clap count %s/%d: %w", subject, id, err)
	}

	var env clapEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		// Tolerate schema drift the same way list envelopes do.
		slog.Warn("api: malformed clap count response", "subject", subject, "id", id, "error", err)
		return 0, nil
	}
	return env.ClapCount, nil
}

// Clap records one clap on a subject and returns the new aggregate count.
// Requires an authenticated context.
func (s *ClapService) Clap(ctx context.Context, subject ClapSubject, id int64) (int64, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Post("/api/" + string(subject) + "/" + strconv.FormatInt(id, 10) + "/clap")
	if err != nil {
		return 0, fmt.Errorf("clap %s/%d: %w", subject, id, err)
	}
	if err := check(resp); err != nil {
		return 0, fmt.Errorf("clap %s/%d: %w", subject, id, err)
	}

	// Unlike reads, a mutation response we cannot parse must fail: the
	// caller's optimistic count would otherwise settle on zero.
	var env clapEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return 0, fmt.Errorf("clap %s/%d: decode: %w", subject, id, err)
	}
	return env.ClapCount, nil
}
