package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"feedguard/packages/domain"
	"feedguard/packages/webhook"

	"github.com/stretchr/testify/require"
)

func TestPageAudited_PostsRowPayload(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var payloads []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p map[string]any
		require.NoError(t, json.Unmarshal(body, &p))
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
	}))
	defer srv.Close()

	n := webhook.New(srv.URL)
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	row := domain.PageResult{
		URL:      "https://shop.example.com/products/a",
		Role:     domain.RoleProduct,
		Status:   domain.Fetched,
		Verdict:  domain.Risk,
		Findings: []domain.Finding{domain.NewFinding(domain.FindingSuspiciousClaims, "Flags: miracle")},
	}

	n.PageAudited(context.Background(), "shop.example.com", at, row)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, payloads, 1)
	p := payloads[0]
	require.Equal(t, "shop.example.com", p["domain"])
	require.Equal(t, "2026-08-28T12:00:00Z", p["timestamp"])
	require.Equal(t, "https://shop.example.com/products/a", p["url"])
	require.Equal(t, "Product", p["type"])
	require.Equal(t, "Fail", p["status"])
	require.Equal(t, "Risk", p["text_compliance"])
	require.Equal(t, "Flags: miracle", p["details"])
}

func TestPageAudited_SwallowsFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	addr := srv.URL
	srv.Close()

	n := webhook.New(addr)
	row := domain.PageResult{URL: "https://shop.example.com", Role: domain.RoleHome, Status: domain.Fetched, Verdict: domain.Compliant}

	// Dead endpoint: must not panic or block the audit path.
	n.PageAudited(context.Background(), "shop.example.com", time.Now(), row)
}

func TestPageAudited_NoEndpointIsNoop(t *testing.T) {
	t.Parallel()

	n := webhook.New("")
	row := domain.PageResult{URL: "https://shop.example.com", Role: domain.RoleHome, Status: domain.Fetched, Verdict: domain.Compliant}
	n.PageAudited(context.Background(), "shop.example.com", time.Now(), row)
}
