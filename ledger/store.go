// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sync"
)

// Store holds the ordered vote sequence. Votes are kept in append order,
// which is also ascending id order since ids are allocated from a serial.
type Store interface {
	// Reset discards every stored vote.
	Reset(ctx context.Context) error
	Append(ctx context.Context, v Vote) error
	Relabel(ctx context.Context, voteID int64, candidateID CandidateID) error
	// LastVoteNotFor returns the most recently appended vote whose
	// candidate differs from candidateID.
	LastVoteNotFor(ctx context.Context, candidateID CandidateID) (Vote, bool, error)
	Count(ctx context.Context, candidateID CandidateID) (count, total int, err error)
	Votes(ctx context.Context) ([]Vote, error)
}

// MemoryStore is a Store backed by a slice.
type MemoryStore struct {
	mu    sync.RWMutex
	votes []Vote
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{votes: make([]Vote, 0)}
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = s.votes[:0]
	return nil
}

func (s *MemoryStore) Append(_ context.Context, v Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = append(s.votes, v)
	return nil
}

func (s *MemoryStore) Relabel(_ context.Context, voteID int64, candidateID CandidateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.votes {
		if s.votes[i].ID == voteID {
			s.votes[i].CandidateID = candidateID
			return nil
		}
	}
	return ErrVoteNotFound
}

func (s *MemoryStore) LastVoteNotFor(_ context.Context, candidateID CandidateID) (Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.votes) - 1; i >= 0; i-- {
		if s.votes[i].CandidateID != candidateID {
			return s.votes[i], true, nil
		}
	}
	return Vote{}, false, nil
}

func (s *MemoryStore) Count(_ context.Context, candidateID CandidateID) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, v := range s.votes {
		if v.CandidateID == candidateID {
			count++
		}
	}
	return count, len(s.votes), nil
}

func (s *MemoryStore) Votes(_ context.Context) ([]Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Vote, len(s.votes))
	copy(out, s.votes)
	return out, nil
}
