// Package main
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"feedguard/packages/audit"
	"feedguard/packages/cache"
	"feedguard/packages/config"
	"feedguard/packages/db"
	"feedguard/packages/fetch"
	"feedguard/packages/metrics"
	"feedguard/packages/server"
	"feedguard/packages/webhook"

	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogger(cfg config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		logDir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(logDir, 0750); err != nil {
			slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error(
				"Failed to create log directory", "path", logDir, "error", err,
			)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}).WithAttrs([]slog.Attr{slog.String("service", "feedguard")})

	slog.SetDefault(slog.New(handler))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("FATAL: Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("--- Starting FeedGuard audit service ---")

	fetcher := fetch.New(cfg.FetchTimeout, cfg.UserAgent, cfg.RetryAttempts, cfg.RetryBackoff)

	var sinks []audit.Sink
	if cfg.WebhookURL != "" {
		sinks = append(sinks, webhook.New(cfg.WebhookURL))
		slog.Info("Webhook sink enabled", "endpoint", cfg.WebhookURL)
	}

	auditor := audit.New(audit.Config{
		MaxProducts:  cfg.MaxProducts,
		MaxWorkers:   cfg.MaxWorkers,
		ScorePenalty: cfg.ScorePenalty,
	}, fetcher, sinks...)

	var history server.History
	if cfg.DatabaseURL != "" {
		storage, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer storage.Close()
		history = storage
	} else {
		slog.Info("DATABASE_URL not set, audit history disabled")
	}

	var reportCache *cache.ReportCache
	if cfg.RedisAddr != "" {
		reportCache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		defer reportCache.Close()
		slog.Info("Report cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	if cfg.MetricsAddr != "" {
		go metrics.ExposeMetrics(cfg.MetricsAddr)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(auditor, history, reportCache).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("Listening", "addr", cfg.ListenAddr)

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received. Exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}
}
