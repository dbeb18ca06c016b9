package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maelbrgt/instagrid/app/api"
	"github.com/maelbrgt/instagrid/app/cfg"
	"github.com/maelbrgt/instagrid/app/grid"
	"github.com/maelbrgt/instagrid/app/notion"
	"github.com/maelbrgt/instagrid/app/proxy"
	"github.com/maelbrgt/instagrid/app/render"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting InstaGrid server", "version", appCfg.Version)
	if !appCfg.IsConfigured() {
		slog.Warn("NOTION_TOKEN / NOTION_DATABASE_ID not set; grid requests will fail until configured")
	}

	aliases := grid.DefaultAliases()
	if appCfg.AliasesFile != "" {
		aliases, err = grid.LoadAliases(appCfg.AliasesFile)
		if err != nil {
			slog.Error("Failed to load aliases file", "path", appCfg.AliasesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Loaded column aliases", "path", appCfg.AliasesFile)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	source := notion.NewClient(appCfg.NotionToken, httpClient)
	rewriter := grid.NewRewriter("/media")
	normalizer := grid.NewNormalizer(source, rewriter, grid.Options{
		Aliases:        aliases,
		StrictUntitled: appCfg.StrictUntitled,
	})
	renderer := render.NewRenderer()
	fetcher := proxy.NewFetcher(httpClient, appCfg.UserAgent)

	handler := api.NewHandler(normalizer, renderer, fetcher)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
