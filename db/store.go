// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/magic-vote/ledger"
)

// Store is a ledger.Store on top of database/sql. Queries use $N
// placeholders, which both lib/pq and modernc sqlite accept.
type Store struct {
	db *sql.DB
}

var _ ledger.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Reset(ctx context.Context) error {
	return ResetSchema(ctx, s.db)
}

func (s *Store) Append(ctx context.Context, v ledger.Vote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (id, candidate_id)
		VALUES ($1, $2)
	`, v.ID, int(v.CandidateID))
	if err != nil {
		return fmt.Errorf("failed to insert vote %d: %w", v.ID, err)
	}
	return nil
}

func (s *Store) Relabel(ctx context.Context, voteID int64, candidateID ledger.CandidateID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vote SET candidate_id = $1 WHERE id = $2
	`, int(candidateID), voteID)
	if err != nil {
		return fmt.Errorf("failed to update vote %d: %w", voteID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ledger.ErrVoteNotFound
	}
	return nil
}

func (s *Store) LastVoteNotFor(ctx context.Context, candidateID ledger.CandidateID) (ledger.Vote, bool, error) {
	var v ledger.Vote
	var cid int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id
		FROM vote
		WHERE candidate_id <> $1
		ORDER BY id DESC
		LIMIT 1
	`, int(candidateID)).Scan(&v.ID, &cid)

	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Vote{}, false, nil
	}
	if err != nil {
		return ledger.Vote{}, false, fmt.Errorf("failed to query last vote: %w", err)
	}
	v.CandidateID = ledger.CandidateID(cid)
	return v, true, nil
}

func (s *Store) Count(ctx context.Context, candidateID ledger.CandidateID) (int, int, error) {
	var count, total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN candidate_id = $1 THEN 1 ELSE 0 END), 0), COUNT(*)
		FROM vote
	`, int(candidateID)).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, total, nil
}

func (s *Store) Votes(ctx context.Context) ([]ledger.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id
		FROM vote
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []ledger.Vote{}
	for rows.Next() {
		var v ledger.Vote
		var cid int
		if err := rows.Scan(&v.ID, &cid); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CandidateID = ledger.CandidateID(cid)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}
