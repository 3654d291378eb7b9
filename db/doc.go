// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the SQL vote store.

# Connecting

Open supports an in-memory SQLite database (the default) and PostgreSQL:

	conn, err := db.Open(ctx, db.TypeSQLite, db.MemorySQLiteURL)

# Schema

ResetSchema drops and recreates the vote table. It is called through
Store.Reset when the ledger is created, so a restart always begins with
a fresh seed:

	CREATE TABLE vote (
	    id BIGINT PRIMARY KEY,
	    candidate_id INTEGER NOT NULL CHECK (candidate_id IN (0, 1))
	);

# Store

Store implements ledger.Store:

	l, err := ledger.New(ctx, db.NewStore(conn), cfg)
*/
package db
