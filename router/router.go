// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/runoff/cache"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/handlers"
	"github.com/danielhkuo/runoff/metrics"
	"github.com/danielhkuo/runoff/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, tallyCache cache.Cache, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg, m)
	ballotHandler := handlers.NewBallotHandler(db, cfg, m)
	resultsHandler := handlers.NewResultsHandler(db, cfg, tallyCache, m)

	// route registers a logged, instrumented handler under its pattern
	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, m.WrapHandler(pattern, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", m.Handler())

	// Election management (admin operations)
	route("POST /elections", electionHandler.CreateElection)
	route("GET /elections/{id}/admin", electionHandler.GetElectionAdmin)
	route("POST /elections/{id}/candidates", electionHandler.AddCandidate)
	route("POST /elections/{id}/open", electionHandler.OpenElection)
	route("POST /elections/{id}/close", electionHandler.CloseElection)
	route("GET /elections/{id}/ballots", ballotHandler.ListBallots)
	route("GET /elections/{id}/tally", resultsHandler.GetLiveTally)

	// Voting operations (public)
	route("GET /elections/{slug}/candidates", ballotHandler.ListCandidates)
	route("POST /elections/{slug}/ballots", ballotHandler.SubmitBallot)

	// Results retrieval (public, with sealed results)
	route("GET /elections/{slug}", resultsHandler.GetElection)
	route("GET /elections/{slug}/results", resultsHandler.GetResults)
	route("GET /elections/{slug}/flow", resultsHandler.GetFlow)
	route("GET /elections/{slug}/ballot-count", resultsHandler.GetBallotCount)
	route("GET /elections/{slug}/preview", resultsHandler.GetPreview)

	// Ballot body schema for clients
	route("GET /schema/ballot", resultsHandler.BallotSchema)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("runoff API v1"))
	})

	return mux
}
