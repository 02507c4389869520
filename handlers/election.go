// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/dbx"

	"github.com/danielhkuo/election-results/cliparse"
	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/models"
	"github.com/danielhkuo/election-results/parties"
	"github.com/danielhkuo/election-results/report"
	"github.com/danielhkuo/election-results/seats"
)

type ElectionHandler struct {
	pool    *db.Pool
	cfg     cliparse.Config
	parties *parties.Registry
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewElectionHandler(pool *db.Pool, cfg cliparse.Config, reg *parties.Registry, m *metrics.Metrics) *ElectionHandler {
	return &ElectionHandler{pool: pool, cfg: cfg, parties: reg, metrics: m, now: time.Now}
}

// GetRoot handles GET /
func (h *ElectionHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Election API server is live!"))
}

// GetHealth handles GET /health
func (h *ElectionHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// GetSummary handles GET /api/election/summary
// Counts every category unless ?category= names one.
func (h *ElectionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryParam(w, r)
	if !ok {
		return
	}

	summary, err := h.loadSummary(r.Context(), category)
	if err != nil {
		slog.Error("failed to fetch election summary", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch election summary")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// LoadSummary reads the summary over all categories. It feeds the live
// stream.
func (h *ElectionHandler) LoadSummary(ctx context.Context) (models.Summary, error) {
	return h.loadSummary(ctx, "")
}

func (h *ElectionHandler) loadSummary(ctx context.Context, category string) (models.Summary, error) {
	var summary models.Summary
	err := h.pool.View(ctx, func(q dbx.Builder) error {
		var err error
		summary, err = db.Summary(ctx, q, category)
		return err
	})
	if err != nil {
		return models.Summary{}, err
	}
	return report.WithRates(summary), nil
}

// GetStatistics handles GET /api/election/statistics
// votes_today counts votes since local midnight.
func (h *ElectionHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryParam(w, r)
	if !ok {
		return
	}

	since := report.StartOfDay(h.now())

	var stats []models.PartyStatistic
	err := h.pool.View(r.Context(), func(q dbx.Builder) error {
		var err error
		stats, err = db.PartyStatistics(r.Context(), q, category, since)
		return err
	})
	if err != nil {
		slog.Error("failed to fetch vote statistics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch vote statistics")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report.WithShares(stats, h.parties))
}

// GetProvincial handles GET /api/election/provincial
// Returns one row per configured province, then any other province with votes.
func (h *ElectionHandler) GetProvincial(w http.ResponseWriter, r *http.Request) {
	var rows []models.ProvincePartyVotes
	err := h.pool.View(r.Context(), func(q dbx.Builder) error {
		var err error
		rows, err = db.ProvincialVotes(r.Context(), q, h.cfg.Categories.Provincial)
		return err
	})
	if err != nil {
		slog.Error("failed to fetch provincial results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch provincial results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report.ProvincialResults(rows, h.cfg.Provinces))
}

// GetRegional handles GET /api/election/regional
func (h *ElectionHandler) GetRegional(w http.ResponseWriter, r *http.Request) {
	var results []models.RegionalResult
	err := h.pool.View(r.Context(), func(q dbx.Builder) error {
		var err error
		results, err = db.RegionalResults(r.Context(), q, h.cfg.Categories.Regional)
		return err
	})
	if err != nil {
		slog.Error("failed to fetch regional results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch regional results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetSeats handles GET /api/election/seats
// Returns [{party, seats, votes}] ordered by votes, highest first.
func (h *ElectionHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.allocate(r.Context())
	if err != nil {
		slog.Error("failed to fetch seat allocation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch seat allocation")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, assignments)
}

// GetSeatOverview handles GET /api/election/seats/overview
// Adds house size, drift, vote share and party colour to the allocation.
func (h *ElectionHandler) GetSeatOverview(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.allocate(r.Context())
	if err != nil {
		slog.Error("failed to fetch seat allocation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch seat allocation")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report.SeatOverview(assignments, h.cfg.HouseSize, h.parties))
}

func (h *ElectionHandler) allocate(ctx context.Context) ([]models.SeatAssignment, error) {
	var tallies []models.PartyTally
	err := h.pool.View(ctx, func(q dbx.Builder) error {
		var err error
		tallies, err = db.Tallies(ctx, q, h.cfg.Categories.Seats)
		return err
	})
	if err != nil {
		return nil, err
	}

	assignments, err := seats.Allocate(tallies, h.cfg.HouseSize)
	if err != nil {
		return nil, err
	}

	drift := seats.Drift(assignments, h.cfg.HouseSize)
	h.metrics.SetSeatAllocation(h.cfg.HouseSize, drift)
	if drift != 0 && len(assignments) > 0 {
		slog.Debug("seat allocation drifts from house size", "house_size", h.cfg.HouseSize, "drift", drift)
	}

	return assignments, nil
}

// GetParties handles GET /api/parties
func (h *ElectionHandler) GetParties(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.parties.All())
}

// categoryParam validates the optional ?category= filter. It writes a 400
// and returns false for an unknown category.
func (h *ElectionHandler) categoryParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category != "" && !h.cfg.Categories.Valid(category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category must be one of "+strings.Join(h.cfg.Categories.All(), ", "))
		return "", false
	}
	return category, true
}
