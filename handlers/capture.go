// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/danielhkuo/election-results/cliparse"
	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/models"
	"github.com/danielhkuo/election-results/parties"
)

type CaptureHandler struct {
	pool    *db.Pool
	cfg     cliparse.Config
	parties *parties.Registry
	hub     *live.Hub
}

// NewCaptureHandler creates the voter and vote capture handler. hub may be
// nil.
func NewCaptureHandler(pool *db.Pool, cfg cliparse.Config, reg *parties.Registry, hub *live.Hub) *CaptureHandler {
	return &CaptureHandler{pool: pool, cfg: cfg, parties: reg, hub: hub}
}

// RegisterVoter handles POST /api/election/voters
func (h *CaptureHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.IDNumber = strings.TrimSpace(req.IDNumber)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Province = strings.TrimSpace(req.Province)

	if req.IDNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id_number is required")
		return
	}
	if req.Province != "" && !slices.Contains(h.cfg.Provinces, req.Province) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown province")
		return
	}

	voter, err := h.pool.RegisterVoter(r.Context(), req)
	if errors.Is(err, db.ErrDuplicateVoter) {
		middleware.ErrorResponse(w, http.StatusConflict, "Voter already registered")
		return
	}
	if err != nil {
		slog.Error("failed to register voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "voter_id", voter.ID, "province", voter.Province)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{VoterID: voter.ID})
}

// CastVote handles POST /api/election/votes
// Party aliases are stored under the party's configured name.
func (h *CaptureHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.VoterID = strings.TrimSpace(req.VoterID)
	req.PartyName = strings.TrimSpace(req.PartyName)
	req.Category = strings.TrimSpace(req.Category)
	req.Province = strings.TrimSpace(req.Province)

	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.PartyName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_name is required")
		return
	}
	if !h.cfg.Categories.Valid(req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category must be one of "+strings.Join(h.cfg.Categories.All(), ", "))
		return
	}
	if req.Province != "" && !slices.Contains(h.cfg.Provinces, req.Province) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown province")
		return
	}

	req.PartyName = h.parties.Lookup(req.PartyName).Name

	vote, err := h.pool.CastVote(r.Context(), req)
	switch {
	case errors.Is(err, db.ErrUnknownVoter):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case errors.Is(err, db.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already voted in this category")
		return
	case err != nil:
		slog.Error("failed to cast vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	if h.hub != nil {
		h.hub.Notify()
	}

	slog.Info("vote cast", "vote_id", vote.ID, "category", vote.Category, "party", vote.PartyName)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{VoteID: vote.ID})
}
