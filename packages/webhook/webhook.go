// Package webhook
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"feedguard/packages/domain"
	"feedguard/packages/metrics"
)

// Notifier posts one JSON payload per completed page result to a configured
// endpoint. Delivery is fire-and-forget: failures are counted, logged at
// debug, and never surfaced to the audit.
type Notifier struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Second},
	}
}

type payload struct {
	Domain    string    `json:"domain"`
	Timestamp time.Time `json:"timestamp"`
	domain.RowJSON
}

// PageAudited implements the audit sink contract. Safe for concurrent use.
func (n *Notifier) PageAudited(ctx context.Context, site string, at time.Time, row domain.PageResult) {
	if n == nil || n.endpoint == "" {
		return
	}

	body, err := json.Marshal(payload{Domain: site, Timestamp: at.UTC(), RowJSON: row.Row()})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.WebhookFailures.Inc()
		slog.Debug("Webhook delivery failed", "endpoint", n.endpoint, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.WebhookFailures.Inc()
		slog.Debug("Webhook delivery rejected", "endpoint", n.endpoint, "status", resp.StatusCode)
	}
}
