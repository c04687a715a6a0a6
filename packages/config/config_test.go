package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 5, cfg.MaxProducts)
	require.Equal(t, 5, cfg.MaxWorkers)
	require.Equal(t, 12, cfg.ScorePenalty)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.WebhookURL)
	require.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_PRODUCTS", "8")
	t.Setenv("SCORE_PENALTY", "15")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/audit")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxProducts)
	require.Equal(t, 15, cfg.ScorePenalty)
	require.Equal(t, 3*time.Second, cfg.FetchTimeout)
	require.Equal(t, "https://hooks.example.com/audit", cfg.WebhookURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_WORKERS", "not-a-number")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MaxWorkers)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
}
