// Package server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"feedguard/packages/cache"
	"feedguard/packages/db"
	"feedguard/packages/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runner runs one audit per call. Implemented by audit.Auditor.
type Runner interface {
	Run(ctx context.Context, rawURL string) (*domain.Report, error)
}

// History lists stored reports. Implemented by db.Storage; nil when no
// database is configured.
type History interface {
	RecentReports(ctx context.Context, domainName string, limit int) ([]db.ReportSummary, error)
	SaveReport(ctx context.Context, report *domain.Report) error
}

// Server is the audit trigger surface.
type Server struct {
	auditor Runner
	history History
	cache   *cache.ReportCache
}

func New(auditor Runner, history History, reportCache *cache.ReportCache) *Server {
	return &Server{auditor: auditor, history: history, cache: reportCache}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/audit", s.handleAudit)
	r.Get("/history", s.handleHistory)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respondError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	// Normalize up front so cache keys and input validation agree.
	target, err := domain.NewTarget(rawURL)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid url parameter")
		return
	}

	if body, ok := s.cache.Get(r.Context(), target.BaseURL); ok {
		slog.Debug("Serving cached report", "target", target.BaseURL)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	report, err := s.auditor.Run(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTarget) {
			respondError(w, http.StatusBadRequest, "invalid url parameter")
			return
		}
		slog.Error("Audit failed", "url", rawURL, "error", err)
		respondError(w, http.StatusInternalServerError, "audit failed")
		return
	}

	if s.history != nil {
		if err := s.history.SaveReport(r.Context(), report); err != nil {
			slog.Error("Failed to persist report", "domain", report.Domain, "error", err)
		}
	}

	body, err := json.Marshal(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "serialization failed")
		return
	}
	s.cache.Set(r.Context(), target.BaseURL, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusServiceUnavailable, "history storage not configured")
		return
	}
	domainName := r.URL.Query().Get("domain")
	if domainName == "" {
		respondError(w, http.StatusBadRequest, "missing domain parameter")
		return
	}

	reports, err := s.history.RecentReports(r.Context(), domainName, 20)
	if err != nil {
		slog.Error("History lookup failed", "domain", domainName, "error", err)
		respondError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	if reports == nil {
		reports = []db.ReportSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"domain": domainName, "reports": reports})
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
