// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// ResetSchema drops and recreates every table. Votes never outlive the
// process, so this runs on every start.
func ResetSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}

	return nil
}

// vote ids are allocated in append order, so ORDER BY id is the stacking
// order.
const schema = `
DROP TABLE IF EXISTS vote;

CREATE TABLE vote (
    id BIGINT PRIMARY KEY,
    candidate_id INTEGER NOT NULL CHECK (candidate_id IN (0, 1))
);

CREATE INDEX idx_vote_candidate_id ON vote(candidate_id);
`
