// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/magic-vote/layout"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/models"
	"github.com/danielhkuo/magic-vote/rigging"
	"github.com/danielhkuo/magic-vote/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. List candidates
// 2. Vote for the challenger, dropping the target below its share
// 3. Check rigging is pending
// 4. Apply a rigging step
// 5. Verify the ledger and the layout
func TestFullVotingWorkflow(t *testing.T) {
	l := testutil.SetupTestLedger(t, 5, 5)
	cfg := testutil.GetTestConfig()

	votingHandler := NewVotingHandler(l)
	resultsHandler := NewResultsHandler(l)
	layoutHandler := NewLayoutHandler(l, cfg)
	riggingHandler := NewRiggingHandler(l)

	// Step 1: List candidates
	w := httptest.NewRecorder()
	votingHandler.ListCandidates(w, httptest.NewRequest("GET", "/candidates", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - List candidates failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 2: Vote for candidate 2
	req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		CandidateID: intPtr(int(ledger.Candidate2)),
		Viewport:    &layout.Size{Width: 1280, Height: 720},
	}, nil)
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Cast vote failed: %d - %s", w.Code, w.Body.String())
	}
	var castResp models.CastVoteResponse
	testutil.AssertJSON(t, w, &castResp)
	if castResp.Index != 10 || castResp.Spawn == nil || castResp.Spawn.X != 640 {
		t.Fatalf("Step 2 - Unexpected cast response: %+v", castResp)
	}

	// Step 3: Rigging is pending at 5/11
	w = httptest.NewRecorder()
	riggingHandler.GetStatus(w, httptest.NewRequest("GET", "/rigging", nil))
	var status models.RiggingStatusResponse
	testutil.AssertJSON(t, w, &status)
	if !status.Pending {
		t.Fatalf("Step 3 - Expected pending rigging, got %+v", status)
	}

	// Step 4: One step relabels the vote just cast
	w = httptest.NewRecorder()
	riggingHandler.ApplyStep(w, httptest.NewRequest("POST", "/rigging/step", nil))
	var step models.RiggingStepResponse
	testutil.AssertJSON(t, w, &step)
	if !step.Changed || step.Pending {
		t.Fatalf("Step 4 - Expected a single settling step, got %+v", step)
	}

	// Step 5: Ledger shows the vote relabelled in place
	w = httptest.NewRecorder()
	resultsHandler.GetLedger(w, httptest.NewRequest("GET", "/ledger", nil))
	var ledgerResp models.LedgerResponse
	testutil.AssertJSON(t, w, &ledgerResp)

	rigged := ledgerResp.Votes[castResp.Index]
	if rigged.ID != castResp.Vote.ID || rigged.CandidateID != ledger.Candidate1 {
		t.Errorf("Step 5 - Expected vote %d relabelled to candidate 1, got %+v", castResp.Vote.ID, rigged)
	}
	if ledgerResp.Stats[0].Text != "6 votos (54.5%)" || ledgerResp.Stats[1].Text != "5 votos (45.5%)" {
		t.Errorf("Step 5 - Unexpected captions: %q, %q", ledgerResp.Stats[0].Text, ledgerResp.Stats[1].Text)
	}

	// The relabelled vote is now the top of candidate 1's stack
	req = testutil.MakeRequest("POST", "/layout", models.LayoutRequest{Buckets: testBuckets}, nil)
	w = httptest.NewRecorder()
	layoutHandler.ComputeLayout(w, req)
	var layoutResp models.LayoutResponse
	testutil.AssertJSON(t, w, &layoutResp)

	if len(layoutResp.Transforms) != 11 {
		t.Fatalf("Step 5 - Expected 11 transforms, got %d", len(layoutResp.Transforms))
	}
	top := layoutResp.Transforms[castResp.Vote.ID]
	bucket := testBuckets[ledger.Candidate1]
	if top.X != bucket.X+bucket.Width/2 || top.Y != bucket.Y+cfg.TokenSize/2 || top.Opacity < 0.9 {
		t.Errorf("Step 5 - Expected relabelled vote on top of candidate 1, got %+v", top)
	}
}

// TestRiggingDriverWorkflow runs the background driver against the ledger
// and waits for it to restore the target's share after a burst of votes
func TestRiggingDriverWorkflow(t *testing.T) {
	l := testutil.SetupTestLedger(t, 10, 0)
	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver := rigging.NewDriver(l,
		rigging.WithSettleDelay(cfg.SettleDelay),
		rigging.WithStepInterval(cfg.StepInterval),
	)
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	for i := 0; i < 15; i++ {
		req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: intPtr(1)}, nil)
		w := httptest.NewRecorder()
		votingHandler.CastVote(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Vote %d failed: %d - %s", i, w.Code, w.Body.String())
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		pending, err := l.HasPendingRigging(context.Background())
		if err != nil {
			t.Fatalf("HasPendingRigging failed: %v", err)
		}
		if !pending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Driver did not restore the target share in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	share, err := l.CurrentShare(context.Background(), ledger.Candidate1)
	if err != nil {
		t.Fatalf("CurrentShare failed: %v", err)
	}
	// 10 seeded + 15 cast; the smallest passing count is 13 of 25.
	if share.Count != 13 || share.Total != 25 {
		t.Errorf("Expected 13 of 25 votes, got %d of %d", share.Count, share.Total)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Driver returned error: %v", err)
	}
}
