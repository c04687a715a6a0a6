// Package metrics
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuditsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedguard_audits_total",
			Help: "Total number of completed site audits.",
		},
	)
	AuditDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedguard_audit_duration_seconds",
			Help:    "End-to-end duration of a site audit in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	AuditScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedguard_audit_score",
			Help:    "Distribution of computed health scores.",
			Buckets: []float64{0, 25, 50, 64, 76, 85, 100},
		},
	)
	PagesUnreachable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedguard_pages_unreachable_total",
			Help: "Pages that could not be fetched within the retry budget.",
		},
	)
	FindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedguard_findings_total",
			Help: "Findings emitted by the rule evaluator, labeled by kind.",
		},
		[]string{"kind"},
	)
	WebhookFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedguard_webhook_failures_total",
			Help: "Webhook deliveries that failed and were dropped.",
		},
	)
)

func init() {
	prometheus.MustRegister(AuditsTotal)
	prometheus.MustRegister(AuditDuration)
	prometheus.MustRegister(AuditScore)
	prometheus.MustRegister(PagesUnreachable)
	prometheus.MustRegister(FindingsTotal)
	prometheus.MustRegister(WebhookFailures)
}

// ExposeMetrics serves the Prometheus endpoint on its own listener. Used
// when METRICS_ADDR is set; otherwise /metrics rides on the main router.
func ExposeMetrics(addr string) {
	slog.Info("Exposing Prometheus metrics", "address", addr)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Failed to start Prometheus metrics server", "error", err)
	}
}
