// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/middleware"
	"github.com/danielhkuo/magic-vote/models"
)

type ResultsHandler struct {
	ledger *ledger.Ledger
}

func NewResultsHandler(l *ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{ledger: l}
}

// GetLedger handles GET /ledger
// Returns every vote in append order plus the per-candidate captions.
func (h *ResultsHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to snapshot ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LedgerResponse{
		Votes:             snap.Votes,
		Stats:             models.BoardStats(snap),
		TargetCandidateID: snap.TargetCandidateID,
		TargetShare:       snap.TargetShare,
		PendingRigging:    snap.PendingRigging(),
		Version:           snap.Version,
	})
}

// GetCandidateStats handles GET /candidates/{id}/stats
func (h *ResultsHandler) GetCandidateStats(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := parseCandidateID(w, r.PathValue("id"))
	if !ok {
		return
	}

	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to snapshot ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	stats := layout.ComputeCandidateStats(snap, candidateID)
	middleware.JSONResponse(w, http.StatusOK, models.NewCandidateStats(candidateID, stats))
}

// parseCandidateID writes the error response itself when raw is not a
// known candidate.
func parseCandidateID(w http.ResponseWriter, raw string) (ledger.CandidateID, bool) {
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id must be an integer")
		return 0, false
	}

	id := ledger.CandidateID(n)
	if !id.Valid() {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return 0, false
	}
	return id, true
}
