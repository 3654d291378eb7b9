// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CastVoteRequest: candidate_id, optional viewport
  - LayoutRequest: buckets (candidate id -> rect), token_size, max_stack_height

# Response Types

Types for JSON responses:

  - CastVoteResponse: vote, index, spawn
  - LedgerResponse: votes, stats, target, pending_rigging, version
  - LayoutResponse: version, transforms (vote id -> transform), stats
  - RiggingStatusResponse: pending, target, target_share, current_share
  - RiggingStepResponse: changed, pending
  - CandidateStats: count, share, text ("12 votos (51.0%)")
  - ErrorResponse: error, message

Domain types (Vote, Candidate, Transform, Rect) come from the ledger and
layout packages.
*/
package models
