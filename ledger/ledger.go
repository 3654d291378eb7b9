// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrInvalidCandidate = errors.New("invalid candidate")
	ErrInvalidConfig    = errors.New("invalid ledger config")
	ErrVoteNotFound     = errors.New("vote not found")
)

const (
	// VoteSerialBase is the serial counter's starting value; the first
	// vote gets VoteSerialBase+1.
	VoteSerialBase int64 = 10_000_000

	DefaultTargetShare = 0.51
)

type Vote struct {
	ID          int64       `json:"id"`
	CandidateID CandidateID `json:"candidate_id"`
}

// Share is a candidate's slice of the ledger.
type Share struct {
	Count int     `json:"count"`
	Total int     `json:"total"`
	Share float64 `json:"share"`
}

func newShare(count, total int) Share {
	s := Share{Count: count, Total: total}
	if total > 0 {
		s.Share = float64(count) / float64(total)
	}
	return s
}

// Config seeds the ledger and sets the rigging threshold.
type Config struct {
	Seed              map[CandidateID]int
	TargetCandidateID CandidateID
	TargetShare       float64
}

func DefaultConfig() Config {
	return Config{
		Seed:              map[CandidateID]int{Candidate1: 10},
		TargetCandidateID: Candidate1,
		TargetShare:       DefaultTargetShare,
	}
}

func (c Config) validate() error {
	if !c.TargetCandidateID.Valid() {
		return fmt.Errorf("%w: unknown target candidate %d", ErrInvalidConfig, int(c.TargetCandidateID))
	}
	if c.TargetShare <= 0 || c.TargetShare >= 1 {
		return fmt.Errorf("%w: target share %v must be in (0,1)", ErrInvalidConfig, c.TargetShare)
	}
	for id, n := range c.Seed {
		if !id.Valid() {
			return fmt.Errorf("%w: seed for unknown candidate %d", ErrInvalidConfig, int(id))
		}
		if n < 0 {
			return fmt.Errorf("%w: negative seed %d for %s", ErrInvalidConfig, n, id)
		}
	}
	return nil
}

// Ledger owns the vote sequence and the rigging algorithm. All mutations
// are serialized; each one is visible to subscribers as a single Event.
type Ledger struct {
	mu          sync.Mutex
	store       Store
	serial      int64
	version     uint64
	target      CandidateID
	targetShare float64

	subMu     sync.Mutex
	nextSub   int
	subs      map[int]chan Event
	observers []func(Event)
}

// New resets store and seeds it according to cfg.
func New(ctx context.Context, store Store, cfg Config) (*Ledger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset vote store: %w", err)
	}

	l := &Ledger{
		store:       store,
		serial:      VoteSerialBase,
		target:      cfg.TargetCandidateID,
		targetShare: cfg.TargetShare,
		subs:        make(map[int]chan Event),
	}

	for _, c := range candidates {
		for i := 0; i < cfg.Seed[c.ID]; i++ {
			if _, err := l.CastVote(ctx, c.ID); err != nil {
				return nil, fmt.Errorf("failed to seed ledger: %w", err)
			}
		}
	}

	slog.Debug("ledger seeded",
		"votes", l.serial-VoteSerialBase,
		"target", l.target.String(),
		"target_share", l.targetShare,
	)
	return l, nil
}

func (l *Ledger) TargetCandidateID() CandidateID { return l.target }

func (l *Ledger) TargetShare() float64 { return l.targetShare }

// CastVote appends a vote for candidateID with a freshly allocated id.
func (l *Ledger) CastVote(ctx context.Context, candidateID CandidateID) (Vote, error) {
	if !candidateID.Valid() {
		return Vote{}, fmt.Errorf("%w: %d", ErrInvalidCandidate, int(candidateID))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	v := Vote{ID: l.serial + 1, CandidateID: candidateID}
	if err := l.store.Append(ctx, v); err != nil {
		return Vote{}, fmt.Errorf("failed to append vote: %w", err)
	}
	l.serial = v.ID
	l.version++
	l.publish(Event{Kind: EventCast, Vote: v, From: candidateID, Version: l.version})
	return v, nil
}

// CurrentShare returns the count and share of candidateID. The share of an
// empty ledger is 0.
func (l *Ledger) CurrentShare(ctx context.Context, candidateID CandidateID) (Share, error) {
	if !candidateID.Valid() {
		return Share{}, fmt.Errorf("%w: %d", ErrInvalidCandidate, int(candidateID))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.share(ctx, candidateID)
}

func (l *Ledger) share(ctx context.Context, candidateID CandidateID) (Share, error) {
	count, total, err := l.store.Count(ctx, candidateID)
	if err != nil {
		return Share{}, fmt.Errorf("failed to count votes: %w", err)
	}
	return newShare(count, total), nil
}

// HasPendingRigging reports whether the target's share is still below the
// threshold.
func (l *Ledger) HasPendingRigging(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending(ctx)
}

func (l *Ledger) pending(ctx context.Context) (bool, error) {
	s, err := l.share(ctx, l.target)
	if err != nil {
		return false, err
	}
	return s.Share < l.targetShare, nil
}

// ApplyRiggingStep relabels the most recently cast non-target vote to the
// target. The vote keeps both its id and its position in the sequence.
// It returns false when nothing was changed, either because the target
// already holds its share or because no non-target vote is left.
func (l *Ledger) ApplyRiggingStep(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending, err := l.pending(ctx)
	if err != nil || !pending {
		return false, err
	}

	v, ok, err := l.store.LastVoteNotFor(ctx, l.target)
	if err != nil {
		return false, fmt.Errorf("failed to find vote to relabel: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := l.store.Relabel(ctx, v.ID, l.target); err != nil {
		return false, fmt.Errorf("failed to relabel vote %d: %w", v.ID, err)
	}
	from := v.CandidateID
	v.CandidateID = l.target
	l.version++
	l.publish(Event{Kind: EventRigged, Vote: v, From: from, Version: l.version})
	return true, nil
}

// Snapshot is a consistent copy of the ledger state.
type Snapshot struct {
	Votes             []Vote      `json:"votes"`
	TargetCandidateID CandidateID `json:"target_candidate_id"`
	TargetShare       float64     `json:"target_share"`
	Version           uint64      `json:"version"`
}

func (l *Ledger) Snapshot(ctx context.Context) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	votes, err := l.store.Votes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list votes: %w", err)
	}
	return Snapshot{
		Votes:             votes,
		TargetCandidateID: l.target,
		TargetShare:       l.targetShare,
		Version:           l.version,
	}, nil
}

// VotesFor returns candidateID's votes in append order.
func (s Snapshot) VotesFor(candidateID CandidateID) []Vote {
	out := make([]Vote, 0)
	for _, v := range s.Votes {
		if v.CandidateID == candidateID {
			out = append(out, v)
		}
	}
	return out
}

func (s Snapshot) Share(candidateID CandidateID) Share {
	count := 0
	for _, v := range s.Votes {
		if v.CandidateID == candidateID {
			count++
		}
	}
	return newShare(count, len(s.Votes))
}

func (s Snapshot) PendingRigging() bool {
	return s.Share(s.TargetCandidateID).Share < s.TargetShare
}

// IndexOf returns the position of voteID in the sequence, or -1.
func (s Snapshot) IndexOf(voteID int64) int {
	for i, v := range s.Votes {
		if v.ID == voteID {
			return i
		}
	}
	return -1
}
