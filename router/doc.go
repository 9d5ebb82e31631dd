// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Runoff API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, tallyCache, m)

Every API route is wrapped with request logging and Prometheus
instrumentation labelled by its pattern.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Election management (admin, requires X-Admin-Key):

	POST /elections                 - Create election
	GET  /elections/{id}/admin      - Get election and roster
	POST /elections/{id}/candidates - Add candidate
	POST /elections/{id}/open       - Open for voting
	POST /elections/{id}/close      - Tabulate and seal results
	GET  /elections/{id}/ballots    - List ballots
	GET  /elections/{id}/tally      - Provisional (cached) tally

Voting (public, uses share slug):

	GET  /elections/{slug}/candidates - Roster for the ballot form
	POST /elections/{slug}/ballots    - Submit ballot

Results (public):

	GET /elections/{slug}              - Election info and candidates
	GET /elections/{slug}/results      - Final results (closed only)
	GET /elections/{slug}/flow         - Sankey flow data (closed only)
	GET /elections/{slug}/ballot-count - Ballot count
	GET /elections/{slug}/preview      - Compact preview data
	GET /schema/ballot                 - JSON Schema of the ballot body
*/
package router
