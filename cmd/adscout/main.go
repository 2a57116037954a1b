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

	"github.com/use-agent/adscout/api"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/engine"
	"github.com/use-agent/adscout/extract"
	"github.com/use-agent/adscout/llm"
	"github.com/use-agent/adscout/metrics"
	"github.com/use-agent/adscout/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("adscout starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"headless", cfg.Browser.Headless,
		"minStaticImages", cfg.Engine.MinStaticImages,
	)
	if cfg.LLM.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; ad copy generation will fail")
	}

	// ── 3. Wire the tiers ───────────────────────────────────────────
	logger := slog.Default()
	fetcher := engine.NewLoggingFetcher(
		engine.NewHTTPEngine(
			engine.WithTimeout(cfg.Engine.HTTPTimeout),
			engine.WithUserAgent(cfg.Scraper.UserAgent),
		),
		logger,
	)
	renderer := scraper.NewLoggingRenderer(
		scraper.NewRenderer(cfg.Browser, cfg.Scraper),
		logger,
	)
	dispatcher := engine.NewDispatcher(fetcher, renderer,
		engine.WithImageFilter(extract.NewImageFilter(cfg.Extract.NoiseKeywords)),
		engine.WithMinStaticImages(cfg.Engine.MinStaticImages),
		engine.WithLogger(logger),
	)

	// ── 4. Copy generator ───────────────────────────────────────────
	writer := llm.NewClient(cfg.LLM, logger)

	// ── 5. Setup router ─────────────────────────────────────────────
	var routerOpts []api.RouterOption
	if cfg.Server.Metrics {
		routerOpts = append(routerOpts, api.WithMetrics(metrics.New()))
	}
	router := api.NewRouter(dispatcher, writer, cfg, time.Now(), routerOpts...)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight renders are cancelled through their request contexts.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("adscout stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
