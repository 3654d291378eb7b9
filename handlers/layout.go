// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/magic-vote/cliparse"
	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/middleware"
	"github.com/danielhkuo/magic-vote/models"
)

type LayoutHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewLayoutHandler(l *ledger.Ledger, cfg cliparse.Config) *LayoutHandler {
	return &LayoutHandler{ledger: l, cfg: cfg}
}

// ComputeLayout handles POST /layout
// The client posts its current bucket rectangles and gets back a transform
// for every vote. Call again after each ledger change or resize.
func (h *LayoutHandler) ComputeLayout(w http.ResponseWriter, r *http.Request) {
	var req models.LayoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Buckets) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "buckets are required")
		return
	}
	for id, rect := range req.Buckets {
		if !id.Valid() {
			middleware.ErrorResponse(w, http.StatusBadRequest, "bucket for unknown candidate")
			return
		}
		if rect.Width < 0 || rect.Height < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "bucket size must not be negative")
			return
		}
	}
	if req.TokenSize < 0 || req.MaxStackHeight < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token_size and max_stack_height must not be negative")
		return
	}

	tokenSize := req.TokenSize
	if tokenSize == 0 {
		tokenSize = h.cfg.TokenSize
	}
	maxStackHeight := req.MaxStackHeight
	if maxStackHeight == 0 {
		maxStackHeight = h.cfg.MaxStackHeight
	}

	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to snapshot ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ledger error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LayoutResponse{
		Version:    snap.Version,
		Transforms: layout.ComputeBoardLayout(snap, req.Buckets, tokenSize, maxStackHeight),
		Stats:      models.BoardStats(snap),
	})
}

// GetSpawn handles GET /spawn?width=&height=&index=
// Returns the starting transform of a token before its first layout pass.
func (h *LayoutHandler) GetSpawn(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width, err := strconv.ParseFloat(q.Get("width"), 64)
	if err != nil || width < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "width must be a non-negative number")
		return
	}
	height, err := strconv.ParseFloat(q.Get("height"), 64)
	if err != nil || height < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "height must be a non-negative number")
		return
	}
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil || index < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	spawn := layout.ComputeSpawnTransform(layout.Size{Width: width, Height: height}, index)
	middleware.JSONResponse(w, http.StatusOK, spawn)
}
