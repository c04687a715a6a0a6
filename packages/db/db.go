// Package db
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedguard/packages/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage persists audit reports for the history endpoint. All writes are
// best-effort from the audit's point of view; the caller decides whether a
// failed save matters.
type Storage struct {
	DB *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Storage{DB: pool}
	if err := s.createTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	slog.Info("Audit history storage ready")
	return s, nil
}

func (s *Storage) Close() {
	s.DB.Close()
}

func (s *Storage) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS audit_reports (
			id UUID PRIMARY KEY,
			domain TEXT NOT NULL,
			score INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_rows (
			id BIGSERIAL PRIMARY KEY,
			report_id UUID NOT NULL REFERENCES audit_reports(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			page_type TEXT NOT NULL,
			status TEXT NOT NULL,
			text_compliance TEXT NOT NULL,
			lang TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_reports_domain ON audit_reports(domain, created_at DESC)`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// SaveReport writes the report header and all rows in one transaction,
// preserving row order through the position column.
func (s *Storage) SaveReport(ctx context.Context, report *domain.Report) error {
	return s.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO audit_reports (id, domain, score, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
			report.ID, report.Domain, report.Score, report.StatusLabel(), report.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		for i, row := range report.Rows {
			wire := row.Row()
			_, err := tx.Exec(ctx,
				`INSERT INTO audit_rows (report_id, position, url, page_type, status, text_compliance, lang, details)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				report.ID, i, wire.URL, wire.Type, wire.Status, wire.TextCompliance, wire.Lang, wire.Details,
			)
			if err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return nil
	})
}

// ReportSummary is one history entry for a domain.
type ReportSummary struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentReports lists the newest stored reports for a domain.
func (s *Storage) RecentReports(ctx context.Context, domainName string, limit int) ([]ReportSummary, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.DB.Query(ctx,
		`SELECT id, domain, score, status, created_at
		 FROM audit_reports WHERE domain = $1
		 ORDER BY created_at DESC LIMIT $2`,
		domainName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.Domain, &r.Score, &r.Status, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
