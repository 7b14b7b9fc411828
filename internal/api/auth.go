// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"inkfeed/internal/models"
)

// ErrMissingCredentials is returned before any network call when the
// login form is incomplete.
var ErrMissingCredentials = errors.New("api: email and password are required")

// AuthService wraps the upstream identity endpoints. The gateway never
// stores credentials; it exchanges them for a bearer token and keeps only
// the token in the session.
type AuthService struct {
	c *Client
}

// NewAuthService creates an auth service over the shared client.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenEnvelope is the payload returned by login and register.
type tokenEnvelope struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return "", ErrMissingCredentials
	}

	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := check(resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	var env tokenEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", fmt.Errorf("login: decode: %w", err)
	}
	return env.Token, nil
}

// Register creates an account and returns a bearer token.
func (s *AuthService) Register(ctx context.Context, reg Registration) (string, error) {
	if strings.TrimSpace(reg.Email) == "" || reg.Password == "" || strings.TrimSpace(reg.Username) == "" {
		return "", ErrMissingCredentials
	}

	resp, err := s.c.pub.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reg).
		Post("/auth/register")
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if err := check(resp); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	var env tokenEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", fmt.Errorf("register: decode: %w", err)
	}
	return env.Token, nil
}

// Me fetches the profile of the token's owner. Requires an authenticated
// context.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	resp, err := s.c.priv.R().
		SetContext(ctx).
		Get("/api/users/me")
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}

	var user models.User
	if err := decodeOne(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("fetch current user: decode: %w", err)
	}
	return &user, nil
}

// Profile fetches a public profile by username.
func (s *AuthService) Profile(ctx context.Context, username string) (*models.User, error) {
	resp, err := s.c.pub.R().
		SetContext(ctx).
		Get("/users/" + username)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %q: %w", username, err)
	}
	if err := check(resp); err != nil {
		return nil, fmt.Errorf("fetch profile %q: %w", username, err)
	}

	var user models.User
	if err := decodeOne(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("fetch profile %q: decode: %w", username, err)
	}
	return &user, nil
}

// GoogleAuthURL returns the upstream OAuth entry point. The callback
// delivers the token in the URL fragment; see handlers.Auth for the
// relay that moves it into the session.
func (s *AuthService) GoogleAuthURL() string {
	return s.c.BaseURL() + "/auth/google"
}
