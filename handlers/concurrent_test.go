// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/models"
	"github.com/danielhkuo/magic-vote/testutil"
)

// TestConcurrentVoteCasting verifies that simultaneous votes each get a
// distinct id and none are lost
func TestConcurrentVoteCasting(t *testing.T) {
	l := testutil.SetupTestLedger(t, 10, 0)
	votingHandler := NewVotingHandler(l)

	numVoters := 50

	var successCount atomic.Int32
	var wg sync.WaitGroup
	ids := make(chan int64, numVoters)

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			body, _ := json.Marshal(models.CastVoteRequest{CandidateID: intPtr(voterIdx % 2)})
			req := httptest.NewRequest("POST", "/votes", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			votingHandler.CastVote(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Voter %d failed: %d - %s", voterIdx, w.Code, w.Body.String())
				return
			}

			var resp models.CastVoteResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Voter %d: failed to decode response: %v", voterIdx, err)
				return
			}
			ids <- resp.Vote.ID
			successCount.Add(1)
		}(i)
	}

	wg.Wait()
	close(ids)

	if int(successCount.Load()) != numVoters {
		t.Fatalf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Duplicate vote id %d", id)
		}
		seen[id] = true
	}

	snap, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Votes) != 10+numVoters {
		t.Fatalf("Expected %d votes, got %d", 10+numVoters, len(snap.Votes))
	}
	for i, v := range snap.Votes {
		if v.ID != ledger.VoteSerialBase+int64(i)+1 {
			t.Errorf("Expected contiguous ids, vote %d has id %d", i, v.ID)
		}
	}

	c1 := snap.Share(ledger.Candidate1).Count
	c2 := snap.Share(ledger.Candidate2).Count
	if c1 != 35 || c2 != 25 {
		t.Errorf("Expected 35/25 split, got %d/%d", c1, c2)
	}
}

// TestConcurrentVotingAndRigging interleaves votes with rigging steps and
// checks the ledger stays consistent
func TestConcurrentVotingAndRigging(t *testing.T) {
	l := testutil.SetupTestLedger(t, 1, 1)
	votingHandler := NewVotingHandler(l)
	riggingHandler := NewRiggingHandler(l)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: intPtr(1)}, nil)
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, req)
			if w.Code != http.StatusCreated {
				t.Errorf("Vote failed: %d - %s", w.Code, w.Body.String())
			}
		}()
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			riggingHandler.ApplyStep(w, httptest.NewRequest("POST", "/rigging/step", nil))
			if w.Code != http.StatusOK {
				t.Errorf("Rigging step failed: %d - %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	// Drain whatever the interleaving left pending.
	for {
		changed, err := l.ApplyRiggingStep(context.Background())
		if err != nil {
			t.Fatalf("ApplyRiggingStep failed: %v", err)
		}
		if !changed {
			break
		}
	}

	snap, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Votes) != 22 {
		t.Fatalf("Expected 22 votes, got %d", len(snap.Votes))
	}
	if snap.PendingRigging() {
		t.Errorf("Expected target at or above threshold, got %v", snap.Share(ledger.Candidate1).Share)
	}
}
