package models

import (
	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
)

// Request types

type CastVoteRequest struct {
	CandidateID *int `json:"candidate_id"`
	// Viewport is optional; when set the response carries a spawn transform.
	Viewport *layout.Size `json:"viewport,omitempty"`
}

// candidate_id -> bucket rectangle
type LayoutRequest struct {
	Buckets        map[ledger.CandidateID]layout.Rect `json:"buckets"`
	TokenSize      float64                            `json:"token_size,omitempty"`
	MaxStackHeight float64                            `json:"max_stack_height,omitempty"`
}

// Response types

type CastVoteResponse struct {
	Vote  ledger.Vote       `json:"vote"`
	Index int               `json:"index"`
	Spawn *layout.Transform `json:"spawn,omitempty"`
}

type CandidateStats struct {
	CandidateID ledger.CandidateID `json:"candidate_id"`
	Count       int                `json:"count"`
	Share       float64            `json:"share"`
	Text        string             `json:"text"`
}

type LedgerResponse struct {
	Votes             []ledger.Vote      `json:"votes"`
	Stats             []CandidateStats   `json:"stats"`
	TargetCandidateID ledger.CandidateID `json:"target_candidate_id"`
	TargetShare       float64            `json:"target_share"`
	PendingRigging    bool               `json:"pending_rigging"`
	Version           uint64             `json:"version"`
}

type LayoutResponse struct {
	Version    uint64                     `json:"version"`
	Transforms map[int64]layout.Transform `json:"transforms"`
	Stats      []CandidateStats           `json:"stats"`
}

type RiggingStatusResponse struct {
	Pending           bool               `json:"pending"`
	TargetCandidateID ledger.CandidateID `json:"target_candidate_id"`
	TargetShare       float64            `json:"target_share"`
	CurrentShare      float64            `json:"current_share"`
}

type RiggingStepResponse struct {
	Changed bool `json:"changed"`
	Pending bool `json:"pending"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewCandidateStats formats stats for one candidate.
func NewCandidateStats(id ledger.CandidateID, s layout.Stats) CandidateStats {
	return CandidateStats{
		CandidateID: id,
		Count:       s.Count,
		Share:       s.Share,
		Text:        s.String(),
	}
}

// BoardStats returns the stats of every candidate in ballot order.
func BoardStats(snap ledger.Snapshot) []CandidateStats {
	out := make([]CandidateStats, 0, 2)
	for _, c := range ledger.Candidates() {
		out = append(out, NewCandidateStats(c.ID, layout.ComputeCandidateStats(snap, c.ID)))
	}
	return out
}
