// Package config
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	MetricsAddr string

	// Crawl/audit tuning
	MaxProducts  int           // product links followed from the home page
	MaxWorkers   int           // concurrent in-flight product fetches
	FetchTimeout time.Duration // per-request budget, includes retries
	UserAgent    string
	ScorePenalty int // score deduction per failing page

	// Fetch retry policy for transient upstream errors
	RetryAttempts int
	RetryBackoff  time.Duration

	// Optional sinks; empty means disabled
	DatabaseURL   string
	WebhookURL    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Logging
	LogFile  string
	LogLevel string
}

func Load() (Config, error) {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		UserAgent:     getEnv("USER_AGENT", "FeedGuard/1.0 (Compliance-Bot)"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LogFile:       getEnv("LOG_FILE", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MaxProducts:   getEnvInt("MAX_PRODUCTS", 5),
		MaxWorkers:    getEnvInt("MAX_WORKERS", 5),
		ScorePenalty:  getEnvInt("SCORE_PENALTY", 12),
		RetryAttempts: getEnvInt("RETRY_ATTEMPTS", 3),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.RetryBackoff = getEnvDuration("RETRY_BACKOFF", 500*time.Millisecond)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", 10*time.Minute)

	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.ScorePenalty < 0 {
		cfg.ScorePenalty = 0
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer env var, using default", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return v
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration env var, using default", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return v
}
