package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/api"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/cache"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/config"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/logging"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/parser"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("load configuration", "error", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logCloser.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the parsed-document cache.
	store, err := cache.New(cfg.CacheConfig())
	if err != nil {
		log.Error("init cache", "type", cfg.CacheType, "error", err)
		os.Exit(1)
	}
	loader := &parser.CachingLoader{
		Next:  &parser.FileLoader{FallbackPdfcpu: cfg.PDFFallbackPdfcpu},
		Cache: store,
		TTL:   cfg.CacheTTL,
		Log:   log,
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, loader, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		store.Close()
	}()

	log.Info("starting docintel", "port", cfg.Port, "cache", cfg.CacheType, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
