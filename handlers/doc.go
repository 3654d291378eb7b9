// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Magic Vote Machine API.

# Handler Types

Each handler is a struct wrapping the ledger:

  - VotingHandler: Candidate listing and vote casting
  - ResultsHandler: Vote sequence and per-candidate captions
  - LayoutHandler: Bucket layout and spawn transforms
  - RiggingHandler: Rigging status and manual steps
  - EventsHandler: Server-Sent Events for ledger changes

Handlers are created via constructor functions that accept *ledger.Ledger.
LayoutHandler also takes the Config for its token size and stack height
defaults:

	votingHandler := handlers.NewVotingHandler(l)
	layoutHandler := handlers.NewLayoutHandler(l, cfg)

# Voting Flow

Votes are unlimited and anonymous:

	GET  /candidates → ListCandidates
	POST /votes      → CastVote (returns the vote, its index and an optional spawn transform)

# Layout

Layout is a pure function of the ledger and the client's bucket
rectangles. Clients post their buckets after every ledger change or
resize:

	POST /layout → ComputeLayout

The newest vote of each candidate sits at the top of its bucket; older
votes sink along a sigmoid curve and fade out once the stack grows deep.

# Rigging

The background rigging driver (package rigging) relabels the newest
non-target vote whenever the target candidate drops below its share.
These endpoints expose the same operations on demand:

	GET  /rigging      → GetStatus
	POST /rigging/step → ApplyStep

# Events

	GET /events → Stream

Each cast or rigged vote produces one event. Event ids are ledger
versions, so clients can discard stale layouts.
*/
package handlers
