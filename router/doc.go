// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Magic Vote Machine API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(l, cfg)

# Endpoints

Health and telemetry:

	GET /health
	GET /metrics

Ballot:

	GET  /candidates
	POST /votes

Results:

	GET /ledger
	GET /candidates/{id}/stats

Layout:

	POST /layout
	GET  /spawn?width=&height=&index=

Rigging:

	GET  /rigging
	POST /rigging/step

Change notification (Server-Sent Events):

	GET /events

All routes except /health, /metrics and / are wrapped with
middleware.WithLogging.
*/
package router
