// Package main
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"feedguard/packages/audit"
	"feedguard/packages/config"
	"feedguard/packages/fetch"
	"feedguard/packages/webhook"
)

// One-shot audit from the command line; prints the JSON report to stdout.
func main() {
	url := flag.String("url", "", "Seed URL of the site to audit")
	pretty := flag.Bool("pretty", true, "Indent the JSON output")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: audit -url https://shop.example.com")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.New(cfg.FetchTimeout, cfg.UserAgent, cfg.RetryAttempts, cfg.RetryBackoff)

	var sinks []audit.Sink
	if cfg.WebhookURL != "" {
		sinks = append(sinks, webhook.New(cfg.WebhookURL))
	}

	auditor := audit.New(audit.Config{
		MaxProducts:  cfg.MaxProducts,
		MaxWorkers:   cfg.MaxWorkers,
		ScorePenalty: cfg.ScorePenalty,
	}, fetcher, sinks...)

	report, err := auditor.Run(ctx, *url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "encode error: %v\n", err)
		os.Exit(1)
	}
}
