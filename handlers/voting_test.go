// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/models"
	"github.com/danielhkuo/magic-vote/testutil"
)

func intPtr(i int) *int { return &i }

func TestListCandidates(t *testing.T) {
	l := testutil.SetupTestLedger(t, 10, 0)
	handler := NewVotingHandler(l)

	req := httptest.NewRequest("GET", "/candidates", nil)
	w := httptest.NewRecorder()
	handler.ListCandidates(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var got []ledger.Candidate
	testutil.AssertJSON(t, w, &got)

	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != ledger.Candidate1 || got[0].Code != "11" {
		t.Errorf("Unexpected first candidate: %+v", got[0])
	}
	if got[1].ID != ledger.Candidate2 || got[1].Code != "85" {
		t.Errorf("Unexpected second candidate: %+v", got[1])
	}
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, l *ledger.Ledger, resp *models.CastVoteResponse)
	}{
		{
			name:           "vote for candidate 2",
			requestBody:    models.CastVoteRequest{CandidateID: intPtr(1)},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, l *ledger.Ledger, resp *models.CastVoteResponse) {
				if resp.Vote.CandidateID != ledger.Candidate2 {
					t.Errorf("Expected candidate 2, got %s", resp.Vote.CandidateID)
				}
				// Seed holds 10 votes, so this is the 11th.
				if resp.Vote.ID != ledger.VoteSerialBase+11 {
					t.Errorf("Expected vote id %d, got %d", ledger.VoteSerialBase+11, resp.Vote.ID)
				}
				if resp.Index != 10 {
					t.Errorf("Expected index 10, got %d", resp.Index)
				}
				if resp.Spawn != nil {
					t.Error("Expected no spawn transform without a viewport")
				}

				share, err := l.CurrentShare(context.Background(), ledger.Candidate2)
				if err != nil {
					t.Fatalf("CurrentShare failed: %v", err)
				}
				if share.Count != 1 || share.Total != 11 {
					t.Errorf("Expected 1 of 11 votes, got %d of %d", share.Count, share.Total)
				}
			},
		},
		{
			name: "vote with viewport returns spawn transform",
			requestBody: models.CastVoteRequest{
				CandidateID: intPtr(0),
				Viewport:    &layout.Size{Width: 800, Height: 600},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, l *ledger.Ledger, resp *models.CastVoteResponse) {
				if resp.Spawn == nil {
					t.Fatal("Expected spawn transform")
				}
				want := layout.ComputeSpawnTransform(layout.Size{Width: 800, Height: 600}, resp.Index)
				if *resp.Spawn != want {
					t.Errorf("Expected spawn %+v, got %+v", want, *resp.Spawn)
				}
			},
		},
		{
			name:           "missing candidate",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown candidate",
			requestBody:    models.CastVoteRequest{CandidateID: intPtr(2)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative candidate",
			requestBody:    models.CastVoteRequest{CandidateID: intPtr(-1)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testutil.SetupTestLedger(t, 10, 0)
			handler := NewVotingHandler(l)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest("POST", "/votes", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CastVote(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var resp models.CastVoteResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, l, &resp)
			}
		})
	}
}

func TestCastVoteRejectedLeavesLedgerUnchanged(t *testing.T) {
	l := testutil.SetupTestLedger(t, 3, 2)
	handler := NewVotingHandler(l)

	before, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: intPtr(7)}, nil)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	after, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(after.Votes) != len(before.Votes) || after.Version != before.Version {
		t.Errorf("Rejected vote changed the ledger: %d -> %d votes, version %d -> %d",
			len(before.Votes), len(after.Votes), before.Version, after.Version)
	}
}
