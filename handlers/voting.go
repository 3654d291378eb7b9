// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/middleware"
	"github.com/danielhkuo/magic-vote/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
}

func NewVotingHandler(l *ledger.Ledger) *VotingHandler {
	return &VotingHandler{ledger: l}
}

// ListCandidates handles GET /candidates
func (h *VotingHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, ledger.Candidates())
}

// CastVote handles POST /votes
// Votes are unlimited; every call appends one vote.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CandidateID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	candidateID := ledger.CandidateID(*req.CandidateID)
	if !candidateID.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown candidate")
		return
	}

	vote, err := h.ledger.CastVote(r.Context(), candidateID)
	if err != nil {
		slog.Error("failed to cast vote", "error", err, "candidate", candidateID.String())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to snapshot ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	resp := models.CastVoteResponse{
		Vote:  vote,
		Index: snap.IndexOf(vote.ID),
	}
	if req.Viewport != nil {
		spawn := layout.ComputeSpawnTransform(*req.Viewport, resp.Index)
		resp.Spawn = &spawn
	}

	slog.Info("vote cast", "vote_id", vote.ID, "candidate", candidateID.String())

	middleware.JSONResponse(w, http.StatusCreated, resp)
}
