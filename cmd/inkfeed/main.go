// Package main is the entry point for the inkfeed reader gateway.
// It loads configuration, connects to Valkey and the upstream blogging
// API, sets up routing, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/config"
	"inkfeed/internal/fetch"
	"inkfeed/internal/handlers"
	"inkfeed/internal/render"
	"inkfeed/internal/router"
	"inkfeed/internal/session"
)

func main() {
	// Structured logger — text output; level stays at Debug so page-cache
	// hit/miss lines are visible in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"api_base_url", cfg.APIBaseURL,
	)

	// Connect to Valkey (sessions + rendered-page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. Outside development, session
	// cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// HTML template renderer for the reader pages.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Typed client for the upstream blogging API, one service per resource.
	apiClient := api.New(cfg.APIBaseURL, cfg.APITimeout)
	services := api.NewServices(apiClient)

	// L2 page cache (full anonymous pages in Valkey) and the in-process
	// resource cache (posts, profiles, counts shared across renders).
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	resources := fetch.NewCache(fetch.DefaultEntryTTL)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Public:  handlers.NewPublic(renderer, sessionStore, services, pageCache, resources, cfg.FeedPageSize, cfg.CommentPageSize),
		Auth:    handlers.NewAuth(renderer, sessionStore, services),
		Actions: handlers.NewActions(renderer, sessionStore, services, pageCache, resources),
		Compose: handlers.NewCompose(renderer, sessionStore, services, pageCache, resources),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(h, sessionStore)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// a full accumulated-page render, which can fan out several upstream
	// calls each bounded by APITimeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
