// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/runoff/tabulate"
)

// Election status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Tabulation method constants
const (
	MethodIRV = "irv"
)

// Request types

type CreateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
}

type AddCandidateRequest struct {
	Name  string `json:"name" jsonschema:"minLength=1"`
	Party string `json:"party" jsonschema:"minLength=1"`
}

// Choices[0] is the first choice; null leaves a rank unselected
type SubmitBallotRequest struct {
	Choices []*int `json:"choices" jsonschema:"maxItems=5,description=Candidate IDs in rank order; null leaves a rank unselected"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID int `json:"candidate_id"`
}

type OpenElectionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type SubmitBallotResponse struct {
	BallotID *int   `json:"ballot_id,omitempty"`
	Recorded bool   `json:"recorded"`
	Message  string `json:"message"`
}

type CloseElectionResponse struct {
	ClosedAt time.Time      `json:"closed_at"`
	Snapshot ResultSnapshot `json:"snapshot"`
}

type ElectionPreviewResponse struct {
	Title          string `json:"title"`
	Status         string `json:"status"`
	CandidateCount int    `json:"candidate_count"`
	BallotCount    int    `json:"ballot_count"`
}

// FlowResponse is shaped for Sankey renderers: nodes are labels and links
// point at node positions.
type FlowResponse struct {
	Nodes     []string              `json:"nodes"`
	Links     []FlowLink            `json:"links"`
	Exhausted []tabulate.Exhaustion `json:"exhausted"`
}

type FlowLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// Domain types

type Election struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CreatorName     string     `json:"creator_name"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Candidate struct {
	ID         int    `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Party      string `json:"party"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

type Ballot struct {
	ID          int       `json:"id"`
	ElectionID  string    `json:"election_id"`
	Choices     []*int    `json:"choices"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// BallotView resolves choice IDs to candidate names for display
type BallotView struct {
	ID      int       `json:"id"`
	Choices []*string `json:"choices"`
}

// Result types

type ResultSnapshot struct {
	ID         string           `json:"id,omitempty"`
	ElectionID string           `json:"election_id"`
	Method     string           `json:"method"`
	ComputedAt time.Time        `json:"computed_at"`
	Outcome    tabulate.Outcome `json:"outcome"`
	Winner     *Candidate       `json:"winner,omitempty"`
	Counted    int              `json:"counted"`
	Rounds     []RoundSummary   `json:"rounds"`
	Flow       tabulate.Flow    `json:"flow"`
	InputsHash string           `json:"inputs_hash"` // Hash of all ballots for verification
}

// RoundSummary is one round's tallies and eliminations without the raw rankings
type RoundSummary struct {
	Round      int              `json:"round"`
	Tallies    []tabulate.Tally `json:"tallies"`
	Eliminated []int            `json:"eliminated"`
	Exhausted  int              `json:"exhausted"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ToTabulateCandidates converts stored candidates to engine input
func ToTabulateCandidates(candidates []Candidate) []tabulate.Candidate {
	out := make([]tabulate.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = tabulate.Candidate{ID: c.ID, Name: c.Name, Party: c.Party}
	}
	return out
}

// ToTabulateBallots converts stored ballots to engine input
func ToTabulateBallots(ballots []Ballot) []tabulate.Ballot {
	out := make([]tabulate.Ballot, len(ballots))
	for i, b := range ballots {
		out[i] = tabulate.Ballot{ID: b.ID, Choices: b.Choices}
	}
	return out
}

// NewResultSnapshot summarizes an engine result for storage and display.
// Raw per-round rankings are dropped; tallies, eliminations and flow are kept.
func NewResultSnapshot(id, electionID, inputsHash string, computedAt time.Time, result *tabulate.Result) ResultSnapshot {
	snap := ResultSnapshot{
		ID:         id,
		ElectionID: electionID,
		Method:     MethodIRV,
		ComputedAt: computedAt,
		Outcome:    result.Outcome,
		Counted:    result.Counted,
		Flow:       result.Flow,
		InputsHash: inputsHash,
	}

	if winner, ok := result.WinnerCandidate(); ok {
		snap.Winner = &Candidate{
			ID:         winner.ID,
			ElectionID: electionID,
			Name:       winner.Name,
			Party:      winner.Party,
		}
	}

	exhausted := make(map[int]int)
	for _, ex := range result.Flow.Exhausted {
		exhausted[ex.ToRound] = ex.Ballots
	}

	for _, r := range result.Rounds {
		tallies := result.TalliesForRound(r.Number)
		if tallies == nil {
			tallies = []tabulate.Tally{}
		}
		eliminated := r.Eliminated
		if eliminated == nil {
			eliminated = []int{}
		}
		snap.Rounds = append(snap.Rounds, RoundSummary{
			Round:      r.Number,
			Tallies:    tallies,
			Eliminated: eliminated,
			Exhausted:  exhausted[r.Number],
		})
	}

	return snap
}

// NewFlowResponse reshapes engine flow data for a Sankey renderer
func NewFlowResponse(flow tabulate.Flow) FlowResponse {
	resp := FlowResponse{
		Nodes:     make([]string, len(flow.Nodes)),
		Links:     make([]FlowLink, len(flow.Transitions)),
		Exhausted: flow.Exhausted,
	}
	for i, n := range flow.Nodes {
		resp.Nodes[i] = n.Label
	}
	for i, tr := range flow.Transitions {
		resp.Links[i] = FlowLink{Source: tr.Source, Target: tr.Target, Value: tr.Ballots}
	}
	return resp
}
