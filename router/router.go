// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/magic-vote/cliparse"
	"github.com/danielhkuo/magic-vote/handlers"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/middleware"
)

func NewRouter(l *ledger.Ledger, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(l)
	resultsHandler := handlers.NewResultsHandler(l)
	layoutHandler := handlers.NewLayoutHandler(l, cfg)
	riggingHandler := handlers.NewRiggingHandler(l)
	eventsHandler := handlers.NewEventsHandler(l)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Ballot
	mux.HandleFunc("GET /candidates", middleware.WithLogging(votingHandler.ListCandidates))
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))

	// Results
	mux.HandleFunc("GET /ledger", middleware.WithLogging(resultsHandler.GetLedger))
	mux.HandleFunc("GET /candidates/{id}/stats", middleware.WithLogging(resultsHandler.GetCandidateStats))

	// Layout (pure, recomputed on every change or resize)
	mux.HandleFunc("POST /layout", middleware.WithLogging(layoutHandler.ComputeLayout))
	mux.HandleFunc("GET /spawn", middleware.WithLogging(layoutHandler.GetSpawn))

	// Rigging
	mux.HandleFunc("GET /rigging", middleware.WithLogging(riggingHandler.GetStatus))
	mux.HandleFunc("POST /rigging/step", middleware.WithLogging(riggingHandler.ApplyStep))

	// Change notification
	mux.HandleFunc("GET /events", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint; exact match only
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("magic-vote API v1"))
	})

	return mux
}
