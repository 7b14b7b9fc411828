// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so tests see pure defaults.
// envOrDefault treats empty the same as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"API_BASE_URL", "API_TIMEOUT",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"FEED_PAGE_SIZE", "COMMENT_PAGE_SIZE", "PAGE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr: got %q, want 0.0.0.0:8080", cfg.Addr())
	}
	if cfg.Env != "development" || !cfg.IsDev() {
		t.Errorf("Env: got %q, want development", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Errorf("APIBaseURL: got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout: got %v, want 15s", cfg.APITimeout)
	}
	if cfg.ValkeyAddr() != "localhost:6379" {
		t.Errorf("ValkeyAddr: got %q", cfg.ValkeyAddr())
	}
	if cfg.FeedPageSize != 10 || cfg.CommentPageSize != 5 {
		t.Errorf("page sizes: got %d/%d, want 10/5", cfg.FeedPageSize, cfg.CommentPageSize)
	}
	if cfg.PageCacheTTL != 5*time.Minute {
		t.Errorf("PageCacheTTL: got %v, want 5m", cfg.PageCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("FEED_PAGE_SIZE", "25")
	t.Setenv("PAGE_CACHE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port: got %q, want 9000", cfg.Port)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL: got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout: got %v, want 3s", cfg.APITimeout)
	}
	if cfg.FeedPageSize != 25 {
		t.Errorf("FeedPageSize: got %d, want 25", cfg.FeedPageSize)
	}
	if cfg.PageCacheTTL != 90*time.Second {
		t.Errorf("PageCacheTTL: got %v, want 90s", cfg.PageCacheTTL)
	}
}

func TestLoadProductionRequiresAPIBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("Load in production without API_BASE_URL: got nil error, want error")
	}

	t.Setenv("API_BASE_URL", "https://api.example.com")
	if _, err := Load(); err != nil {
		t.Errorf("Load in production with API_BASE_URL: got %v, want nil", err)
	}
}

func TestLoadRejectsBadPageSizes(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_PAGE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Error("Load with zero page size: got nil error, want error")
	}
}

func TestLoadUnparseableValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_PAGE_SIZE", "lots")
	t.Setenv("API_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedPageSize != 10 {
		t.Errorf("FeedPageSize: got %d, want default 10", cfg.FeedPageSize)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout: got %v, want default 15s", cfg.APITimeout)
	}
}
