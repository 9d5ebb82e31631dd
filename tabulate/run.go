// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"fmt"
	"slices"
)

// Run normalizes the input, runs the elimination loop and builds tallies and
// flow data. Errors wrapping ErrEmptyInput mean there was nothing to tabulate.
func Run(candidates []Candidate, ballots []Ballot) (*Result, error) {
	rankings, err := Normalize(candidates, ballots)
	if err != nil {
		return nil, err
	}

	history := Tabulate(rankings)
	tallies := Summarize(history.Rounds)

	names := make(map[int]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.Name
	}
	nodes := OrderNodes(tallies, names)

	flow, err := BuildFlow(history.Rounds, nodes)
	if err != nil {
		return nil, fmt.Errorf("build flow: %w", err)
	}

	return &Result{
		Candidates: slices.Clone(candidates),
		Counted:    len(history.Rounds[0].Leaders()),
		Rounds:     history.Rounds,
		Outcome:    history.Outcome,
		Winner:     history.Winner,
		Tallies:    tallies,
		Flow:       flow,
	}, nil
}
