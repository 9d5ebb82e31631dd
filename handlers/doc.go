// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Runoff API.

# Handler Types

Each handler is a struct with database, config and metrics dependencies:

  - ElectionHandler: Election lifecycle (create, roster, open, close)
  - BallotHandler: Ballot submission, roster lookup, admin ballot list
  - ResultsHandler: Election info, sealed results, flow data, live tally

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(db, cfg, m)
	resultsHandler := handlers.NewResultsHandler(db, cfg, tallyCache, m)

A nil *metrics.Metrics records nothing; a nil cache.Cache disables caching.

# Election Lifecycle

Elections progress through three states: draft → open → closed

	POST /elections                 → CreateElection (returns admin_key)
	POST /elections/{id}/candidates → AddCandidate (draft or open)
	POST /elections/{id}/open       → OpenElection (generates share_slug)
	POST /elections/{id}/close      → CloseElection (tabulates and seals)

Admin operations require the X-Admin-Key header. Candidate and ballot IDs
are small integers allocated per election: 0, then previous max + 1.

# Ballots

Voters interact via the share slug:

	GET  /elections/{slug}/candidates → ListCandidates
	POST /elections/{slug}/ballots    → SubmitBallot

A ballot ranks up to five roster candidates, each at most once; null leaves a
rank empty. A ballot without a first choice is acknowledged with
recorded=false and never stored.

# Tabulation

CloseElection loads the roster and ballots inside its transaction, runs
tabulate.Run and stores a ResultSnapshot with the election's inputs hash.
When the tabulator reports tabulate.ErrEmptyInput the close is refused with
409 and the election stays open.

GetLiveTally runs the same computation on demand for admins and caches the
encoded result under cache.TallyKey(electionID, inputsHash).
*/
package handlers
