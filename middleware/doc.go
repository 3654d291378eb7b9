// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /ledger", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(duration_ms), and records the latency in the request_duration_seconds
histogram labelled by route pattern. The request id is taken from the
X-Request-ID header or generated, and echoed back.

# CORS Middleware

Enable cross-origin requests for the voting machine front end:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP returns the original client IP (handles X-Forwarded-For,
X-Real-IP) for the request log.
*/
package middleware
