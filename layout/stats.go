// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package layout

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/magic-vote/ledger"
)

// Stats is the bucket caption for one candidate.
type Stats struct {
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// ComputeCandidateStats derives the caption figures from snap. An empty
// ledger yields 0 votes at 0%.
func ComputeCandidateStats(snap ledger.Snapshot, candidateID ledger.CandidateID) Stats {
	s := snap.Share(candidateID)
	return Stats{Count: s.Count, Share: s.Share}
}

// String renders the caption, e.g. "1,204 votos (51.0%)".
func (s Stats) String() string {
	return fmt.Sprintf("%s votos (%.1f%%)", humanize.Comma(int64(s.Count)), 100*s.Share)
}
