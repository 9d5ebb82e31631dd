// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"fmt"
	"slices"
)

// MaxRanks is the number of ranked slots on a ballot.
const MaxRanks = 5

// Candidate is an entry on the election roster.
type Candidate struct {
	ID    int    `json:"id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Party string `json:"party" toml:"party"`
}

// Ballot is one voter's ranked list. Choices[0] is the first choice and a nil
// entry means nothing was selected for that rank.
type Ballot struct {
	ID      int    `json:"id" toml:"id"`
	Choices []*int `json:"choices" toml:"choices"`
}

// FirstChoice returns the candidate in the first slot, if one was selected.
func (b Ballot) FirstChoice() (int, bool) {
	if len(b.Choices) == 0 || b.Choices[0] == nil {
		return 0, false
	}
	return *b.Choices[0], true
}

// Ranking is a single (ballot, candidate, rank) fact.
type Ranking struct {
	BallotID    int `json:"ballot_id"`
	CandidateID int `json:"candidate_id"`
	Rank        int `json:"rank"`
}

// Round is an immutable snapshot of the active rankings after an elimination step.
type Round struct {
	Number   int       `json:"round"`
	Rankings []Ranking `json:"rankings"`
	// Eliminated lists the candidates removed to produce this round, ascending.
	Eliminated []int `json:"eliminated,omitempty"`
}

// Leaders maps each ballot with an active first choice to that candidate.
func (r Round) Leaders() map[int]int {
	leaders := make(map[int]int)
	for _, rk := range r.Rankings {
		if rk.Rank == 1 {
			leaders[rk.BallotID] = rk.CandidateID
		}
	}
	return leaders
}

// Candidates returns the distinct candidates still ranked in this round, ascending.
func (r Round) Candidates() []int {
	return distinctCandidates(r.Rankings)
}

// Outcome is the terminal condition of a tabulation.
type Outcome string

const (
	OutcomeWinner   Outcome = "winner"
	OutcomeNoWinner Outcome = "no_winner"
)

// History is the full round sequence produced by Tabulate.
type History struct {
	Rounds  []Round `json:"rounds"`
	Outcome Outcome `json:"outcome"`
	Winner  *int    `json:"winner,omitempty"`
}

// Tally is the first-place count of one candidate in one round.
type Tally struct {
	CandidateID int `json:"candidate_id"`
	Round       int `json:"round"`
	Votes       int `json:"votes"`
	// Share is Votes over all first-place votes of the round; exhausted
	// ballots are not in the denominator.
	Share float64 `json:"share"`
}

// Node is a (candidate, round) pair placed at a dense display index.
type Node struct {
	Index       int     `json:"index"`
	CandidateID int     `json:"candidate_id"`
	Round       int     `json:"round"`
	Label       string  `json:"label"`
	Votes       int     `json:"votes"`
	Share       float64 `json:"share"`
}

// NodeLabel formats the display label of a flow node.
func NodeLabel(name string, round int) string {
	return fmt.Sprintf("Candidate: %s, Round: %d", name, round)
}

// Transition counts ballots led by StartCandidate in StartRound and by
// EndCandidate in EndRound. Source and Target are node indexes.
type Transition struct {
	Source         int `json:"source"`
	Target         int `json:"target"`
	StartCandidate int `json:"start_candidate"`
	EndCandidate   int `json:"end_candidate"`
	StartRound     int `json:"start_round"`
	EndRound       int `json:"end_round"`
	Ballots        int `json:"ballots"`
}

// Exhaustion counts ballots that had a leading candidate in FromRound and
// none in ToRound. These ballots appear in no Transition.
type Exhaustion struct {
	FromRound int `json:"from_round"`
	ToRound   int `json:"to_round"`
	Ballots   int `json:"ballots"`
}

// Flow is the node/link structure consumed by a Sankey-style renderer.
type Flow struct {
	Nodes       []Node       `json:"nodes"`
	Transitions []Transition `json:"transitions"`
	Exhausted   []Exhaustion `json:"exhausted"`
}

// Result bundles everything a tabulation run produces.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	// Counted is the number of ballots with a valid first choice.
	Counted int     `json:"counted"`
	Rounds  []Round `json:"rounds"`
	Outcome Outcome `json:"outcome"`
	Winner  *int    `json:"winner,omitempty"`
	Tallies []Tally `json:"tallies"`
	Flow    Flow    `json:"flow"`
}

// WinnerCandidate returns the winning candidate. The second return is false
// for OutcomeNoWinner.
func (r *Result) WinnerCandidate() (Candidate, bool) {
	if r.Outcome != OutcomeWinner || r.Winner == nil {
		return Candidate{}, false
	}
	i := slices.IndexFunc(r.Candidates, func(c Candidate) bool { return c.ID == *r.Winner })
	if i < 0 {
		return Candidate{ID: *r.Winner}, true
	}
	return r.Candidates[i], true
}

// TalliesForRound returns the tallies of one round in candidate ID order.
func (r *Result) TalliesForRound(round int) []Tally {
	var out []Tally
	for _, t := range r.Tallies {
		if t.Round == round {
			out = append(out, t)
		}
	}
	return out
}
