package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/api/github"
	"github.com/luckypoem/ethereal/internal/config"
	"github.com/luckypoem/ethereal/internal/format"
	"github.com/luckypoem/ethereal/internal/service"
	"github.com/luckypoem/ethereal/internal/store"
	"github.com/luckypoem/ethereal/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app := buildApp(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Serving posts of %s/%s on http://localhost%s", cfg.Owner, cfg.Repo, addr)
	if !cfg.HasToken() {
		log.Printf("WARNING: GITHUB_TOKEN not set, using unauthenticated rate limits")
	}
	if cfg.CacheTTLSeconds > 0 {
		log.Printf("Response cache enabled (ttl: %ds)", cfg.CacheTTLSeconds)
	}

	app.refresher.Start()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down...")
	app.refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

type app struct {
	handler   http.Handler
	refresher *service.Refresher
}

// buildApp wires up all dependencies.
// This is the composition root where all dependencies are created and injected.
func buildApp(cfg *config.Config) *app {
	logger := web.NewStdLogger()
	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Set reasonable timeout for API requests
	}

	var client api.Client = github.NewClient(api.ClientConfig{
		BaseURL:    cfg.GitHubURL,
		GraphQLURL: cfg.GitHubGraphQLURL,
		Token:      cfg.GitHubToken,
		Owner:      cfg.Owner,
		Repo:       cfg.Repo,
		Creator:    cfg.Creator,
	}, httpClient)

	if ttl := cfg.CacheTTL(); ttl > 0 {
		client = api.NewCachingClient(client, ttl, logger)
	}

	module := store.NewModule(client, format.FormatPost)

	var snapshotter service.Snapshotter
	if cfg.SnapshotPath != "" {
		snapshot := store.NewSnapshot(cfg.SnapshotPath, logger)
		if data, found, err := snapshot.Load(); err != nil {
			log.Printf("Ignoring unreadable snapshot: %v", err)
		} else if found {
			module.State.Restore(data)
		}
		snapshotter = snapshot
	}

	refresher := service.NewRefresher(module, snapshotter, cfg.PageSize, cfg.RefreshInterval(), logger)

	handler := web.NewHandler(web.HandlerConfig{
		Module:   module,
		Logger:   logger,
		PageSize: cfg.PageSize,
		Site: web.SiteInfo{
			URL:   cfg.SiteURL,
			Title: cfg.SiteTitle,
		},
	})

	return &app{
		handler:   web.NewRouter(handler),
		refresher: refresher,
	}
}
