// Package audit
package audit

import (
	"context"
	"log/slog"
	"time"

	"feedguard/packages/domain"
	"feedguard/packages/links"
	"feedguard/packages/metrics"
	"feedguard/packages/rules"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves and parses a single page. Implementations collapse every
// failure mode into the returned error.
type Fetcher interface {
	FetchPage(ctx context.Context, rawURL string) (*domain.PageContent, error)
}

// Sink receives each completed page result. Implementations must tolerate
// concurrent calls and must never block or fail the audit.
type Sink interface {
	PageAudited(ctx context.Context, site string, at time.Time, row domain.PageResult)
}

type Config struct {
	MaxProducts  int
	MaxWorkers   int
	ScorePenalty int
}

// Auditor runs full-site compliance audits. Safe for concurrent use; all
// tuning lives in the Config captured at construction.
type Auditor struct {
	cfg     Config
	fetcher Fetcher
	sinks   []Sink
}

func New(cfg Config, fetcher Fetcher, sinks ...Sink) *Auditor {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.MaxProducts < 0 {
		cfg.MaxProducts = 0
	}
	return &Auditor{cfg: cfg, fetcher: fetcher, sinks: sinks}
}

// Run audits the site behind rawURL and returns the finished report. The
// only hard error is an unusable target URL; every network failure degrades
// a single row instead.
func (a *Auditor) Run(ctx context.Context, rawURL string) (*domain.Report, error) {
	target, err := domain.NewTarget(rawURL)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	slog.Info("Audit started", "target", target.BaseURL)

	home, candidates := a.discover(ctx, target)
	a.notify(ctx, target.Host, started, home)

	// Workers write into discovery-order slots so the report is
	// deterministic regardless of fetch completion order.
	products := make([]domain.PageResult, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxWorkers)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			products[i] = a.auditPage(gCtx, candidate, domain.RoleProduct)
			a.notify(gCtx, target.Host, started, products[i])
			return nil
		})
	}
	_ = g.Wait()

	rows := make([]domain.PageResult, 0, 1+len(products))
	rows = append(rows, home)
	rows = append(rows, products...)

	report := &domain.Report{
		ID:        uuid.NewString(),
		Domain:    target.Host,
		Score:     Score(a.cfg.ScorePenalty, rows),
		Timestamp: time.Now().UTC(),
		Rows:      rows,
	}

	metrics.AuditsTotal.Inc()
	metrics.AuditDuration.Observe(time.Since(started).Seconds())
	metrics.AuditScore.Observe(float64(report.Score))
	slog.Info("Audit finished", "target", target.BaseURL, "score", report.Score, "pages", len(rows), "duration", time.Since(started).String())
	return report, nil
}

// discover fetches the seed page exactly once, evaluates it in the Home
// role, and extracts the bounded product-link worklist from the same
// content. A dead seed still yields a (degraded) report.
func (a *Auditor) discover(ctx context.Context, target domain.Target) (domain.PageResult, []string) {
	content, err := a.fetcher.FetchPage(ctx, target.BaseURL)
	if err != nil {
		slog.Warn("Seed page unreachable", "target", target.BaseURL, "error", err)
		return unreachable(target.BaseURL, domain.RoleHome, err), nil
	}

	verdict, findings := rules.Evaluate(content, domain.RoleHome)
	home := domain.PageResult{
		URL:      target.BaseURL,
		Role:     domain.RoleHome,
		Status:   domain.Fetched,
		Verdict:  verdict,
		Lang:     content.Lang,
		Findings: findings,
	}
	recordFindings(findings)

	candidates := links.ExtractProductLinks(content.Doc, content.FinalURL, target, a.cfg.MaxProducts)
	slog.Debug("Product discovery complete", "target", target.BaseURL, "candidates", len(candidates))
	return home, candidates
}

func (a *Auditor) auditPage(ctx context.Context, rawURL string, role domain.PageRole) domain.PageResult {
	content, err := a.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		return unreachable(rawURL, role, err)
	}
	verdict, findings := rules.Evaluate(content, role)
	recordFindings(findings)
	return domain.PageResult{
		URL:      rawURL,
		Role:     role,
		Status:   domain.Fetched,
		Verdict:  verdict,
		Lang:     content.Lang,
		Findings: findings,
	}
}

func (a *Auditor) notify(ctx context.Context, site string, at time.Time, row domain.PageResult) {
	for _, s := range a.sinks {
		s.PageAudited(ctx, site, at, row)
	}
}

func unreachable(rawURL string, role domain.PageRole, err error) domain.PageResult {
	metrics.PagesUnreachable.Inc()
	return domain.PageResult{
		URL:      rawURL,
		Role:     role,
		Status:   domain.Unreachable,
		Findings: []domain.Finding{domain.NewFinding(domain.FindingFetchFailed, "Connection error: "+err.Error())},
	}
}

func recordFindings(findings []domain.Finding) {
	for _, f := range findings {
		metrics.FindingsTotal.WithLabelValues(string(f.Kind)).Inc()
	}
}

// Score is a pure function of the page results: a fixed penalty per page
// carrying at least one finding, clamped to [0,100]. Recomputable from any
// stored report.
func Score(penalty int, rows []domain.PageResult) int {
	fails := 0
	for _, r := range rows {
		if r.Failed() {
			fails++
		}
	}
	score := 100 - penalty*fails
	if score < 0 {
		return 0
	}
	return score
}
