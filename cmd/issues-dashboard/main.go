package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vilaca/issues-dashboard/internal/api"
	"github.com/vilaca/issues-dashboard/internal/api/github"
	"github.com/vilaca/issues-dashboard/internal/config"
	"github.com/vilaca/issues-dashboard/internal/dashboard"
	"github.com/vilaca/issues-dashboard/internal/domain"
	"github.com/vilaca/issues-dashboard/internal/service"
	"github.com/vilaca/issues-dashboard/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire up dependencies (Dependency Injection / IoC)
	server, cleanup, err := buildServer(cfg)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	defer cleanup()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting issues dashboard on http://localhost%s", addr)
	log.Printf("Cache: %s (TTL %ds)", cfg.CacheDBPath, cfg.CacheTTLSeconds)

	if repos := cfg.GetWatchedRepos(); len(repos) > 0 {
		log.Printf("Watching %d repositories", len(repos))
	}
	if !cfg.HasToken() {
		log.Printf("WARNING: No GITHUB_TOKEN set; unauthenticated requests have a low rate limit")
	}

	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildServer wires up all dependencies and returns the configured HTTP handler.
// This is the composition root where all dependencies are created and injected.
func buildServer(cfg *config.Config) (http.Handler, func(), error) {
	logger := dashboard.NewStdLogger()

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore, err := store.NewSQLiteStore(cfg.CacheDBPath, ttl, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache store: %w", err)
	}

	// The auth signal is the one cross-cutting hook the core exposes: the
	// fetcher raises it on 401/403, the issues endpoint surfaces it.
	authSignal := dashboard.NewAuthSignal()

	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Set reasonable timeout for API requests
	}

	// The env token wins; otherwise fall back to one saved via /api/token.
	token := cfg.GitHubToken
	if token == "" {
		if saved, err := cacheStore.LoadToken(); err == nil {
			token = saved
		}
	}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHubURL,
		Token:   token,
	}, httpClient, authSignal.Signal)

	aggregator := service.NewAggregator(githubClient, cacheStore, logger)

	var defaultRepos []domain.RepoIdentifier
	for _, entry := range cfg.GetWatchedRepos() {
		repo, err := domain.ParseRepoIdentifier(entry)
		if err != nil {
			logger.Printf("Ignoring invalid watched repository %q", entry)
			continue
		}
		defaultRepos = append(defaultRepos, repo)
	}

	// Create handler with dependencies (Dependency Injection)
	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Logger:       logger,
		Issues:       aggregator,
		CacheAdmin:   cacheStore,
		Settings:     cacheStore,
		Tokens:       githubClient,
		Auth:         authSignal,
		DefaultRepos: defaultRepos,
		OpenOnly:     cfg.OpenOnly,
	})

	// Register routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	cleanup := func() {
		if err := cacheStore.Close(); err != nil {
			logger.Printf("Failed to close cache store: %v", err)
		}
	}

	return mux, cleanup, nil
}
