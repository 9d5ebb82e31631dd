// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, description, creator_name
  - AddCandidateRequest: name, party
  - SubmitBallotRequest: choices ([]*int, up to 5, null = not selected)

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key
  - AddCandidateResponse: candidate_id
  - OpenElectionResponse: share_slug, share_url
  - SubmitBallotResponse: ballot_id, recorded, message
  - CloseElectionResponse: closed_at, snapshot
  - ElectionPreviewResponse: title, status, counts
  - FlowResponse: Sankey nodes and links
  - ErrorResponse: error, message

# Domain Types

  - Election: election metadata and lifecycle state
  - Candidate: roster entry (ID is 0 for the first candidate, then max+1)
  - Ballot: ranked choices as stored
  - ResultSnapshot: immutable tabulation record with per-round summaries

ToTabulateCandidates, ToTabulateBallots and NewResultSnapshot convert between
these types and the tabulate package.

# JSON Schema

GenerateSchema reflects a type into an inline JSON Schema with
github.com/invopop/jsonschema. BallotSchema is served at /schema/ballot.

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

Tabulation method:

	MethodIRV = "irv"
*/
package models
