// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/magic-vote/cliparse"
	"github.com/danielhkuo/magic-vote/ledger"
)

// GetTestConfig returns a standard test configuration: in-memory votes,
// the default seed and threshold, fast rigging.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseType:   "memory",
		SeedCandidate1: 10,
		SeedCandidate2: 0,
		TargetShare:    0.51,
		SettleDelay:    10 * time.Millisecond,
		StepInterval:   time.Millisecond,
		TokenSize:      96,
		MaxStackHeight: 10,
	}
}

// SetupTestLedger creates a memory-backed ledger seeded with seed1 votes
// for candidate 1 and seed2 for candidate 2, targeting candidate 1 at 51%.
func SetupTestLedger(t *testing.T, seed1, seed2 int) *ledger.Ledger {
	t.Helper()

	cfg := GetTestConfig()
	cfg.SeedCandidate1 = seed1
	cfg.SeedCandidate2 = seed2

	l, err := ledger.New(context.Background(), ledger.NewMemoryStore(), cfg.LedgerConfig())
	if err != nil {
		t.Fatalf("Failed to create test ledger: %v", err)
	}
	return l
}

// CastTestVotes casts one vote per candidate id, in order
func CastTestVotes(t *testing.T, l *ledger.Ledger, ids ...ledger.CandidateID) []ledger.Vote {
	t.Helper()

	votes := make([]ledger.Vote, 0, len(ids))
	for _, id := range ids {
		v, err := l.CastVote(context.Background(), id)
		if err != nil {
			t.Fatalf("Failed to cast test vote: %v", err)
		}
		votes = append(votes, v)
	}
	return votes
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
