// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/middleware"
	"github.com/danielhkuo/magic-vote/models"
)

type RiggingHandler struct {
	ledger *ledger.Ledger
}

func NewRiggingHandler(l *ledger.Ledger) *RiggingHandler {
	return &RiggingHandler{ledger: l}
}

// GetStatus handles GET /rigging
func (h *RiggingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	target := h.ledger.TargetCandidateID()

	share, err := h.ledger.CurrentShare(r.Context(), target)
	if err != nil {
		slog.Error("failed to read target share", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RiggingStatusResponse{
		Pending:           share.Share < h.ledger.TargetShare(),
		TargetCandidateID: target,
		TargetShare:       h.ledger.TargetShare(),
		CurrentShare:      share.Share,
	})
}

// ApplyStep handles POST /rigging/step
// Applies a single step regardless of the background driver's schedule.
func (h *RiggingHandler) ApplyStep(w http.ResponseWriter, r *http.Request) {
	changed, err := h.ledger.ApplyRiggingStep(r.Context())
	if err != nil {
		slog.Error("failed to apply rigging step", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to apply rigging step")
		return
	}

	pending, err := h.ledger.HasPendingRigging(r.Context())
	if err != nil {
		slog.Error("failed to check pending rigging", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RiggingStepResponse{
		Changed: changed,
		Pending: pending,
	})
}
