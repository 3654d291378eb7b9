// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Magic Vote Machine server.

The Magic Vote Machine is a two-candidate voting board. Every vote drops a
token into its candidate's bucket, and a rigging loop quietly relabels the
newest opposing votes whenever the favoured candidate falls below its
target share.

# Starting the Server

With no configuration the server keeps votes in an in-memory SQLite
database:

	go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

All settings are optional:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): memory, sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string, required for postgres
  - TARGET_CANDIDATE (-target), TARGET_SHARE (-target-share): Rigging target
  - SETTLE_DELAY (-settle-delay), STEP_INTERVAL (-step-interval): Rigging pace

Settings may also be placed in a .env file.

The vote table is recreated on every start.

# Architecture

  - ledger: Vote sequence, shares and rigging steps
  - layout: Pure stacking, fade and spawn math
  - rigging: Background driver that paces rigging steps
  - db: SQL-backed vote store (SQLite or PostgreSQL)
  - metrics: Prometheus metrics
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
