// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger holds the votes of the Magic Vote Machine and the rigging
algorithm that keeps the target candidate at its share.

# Votes

Votes are appended in cast order and never removed. Ids come from a serial
counter starting at VoteSerialBase, so the first vote is 10000001:

	l, err := ledger.New(ctx, ledger.NewMemoryStore(), ledger.DefaultConfig())
	v, err := l.CastVote(ctx, ledger.Candidate2)

# Rigging

ApplyRiggingStep relabels exactly one vote per call: the most recently cast
vote that is not for the target. It returns false once the target's share
reaches the threshold, so a driver can loop:

	for {
		changed, err := l.ApplyRiggingStep(ctx)
		if err != nil || !changed {
			break
		}
		// wait for the UI to animate the conversion
	}

A relabelled vote keeps its id and its place in the sequence.

# Storage

Votes live in a Store. MemoryStore keeps them in a slice; package db
provides a SQL implementation.

# Change Notification

Subscribe returns a channel of Events (cast, rigged) for consumers such as
the rigging driver, the metrics tracker and the SSE stream.
*/
package ledger
