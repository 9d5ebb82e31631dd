// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import "testing"

const (
	candX = 0
	candY = 1
	candZ = 2
)

func xyz() []Candidate {
	return []Candidate{
		{ID: candX, Name: "X", Party: "Red"},
		{ID: candY, Name: "Y", Party: "Blue"},
		{ID: candZ, Name: "Z", Party: "Green"},
	}
}

// ranked builds a ballot from candidate IDs; -1 leaves that slot unset.
func ranked(id int, choices ...int) Ballot {
	b := Ballot{ID: id}
	for _, c := range choices {
		if c < 0 {
			b.Choices = append(b.Choices, nil)
			continue
		}
		c := c
		b.Choices = append(b.Choices, &c)
	}
	return b
}

// ballotsOf assigns sequential IDs to a list of choice lists.
func ballotsOf(lists ...[]int) []Ballot {
	ballots := make([]Ballot, len(lists))
	for i, l := range lists {
		ballots[i] = ranked(i, l...)
	}
	return ballots
}

func repeat(n int, choices ...int) [][]int {
	out := make([][]int, n)
	for i := range out {
		out[i] = choices
	}
	return out
}

func concat(groups ...[][]int) [][]int {
	var out [][]int
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func mustRun(t *testing.T, candidates []Candidate, ballots []Ballot) *Result {
	t.Helper()
	result, err := Run(candidates, ballots)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func votesIn(result *Result, round, candidate int) int {
	for _, tl := range result.Tallies {
		if tl.Round == round && tl.CandidateID == candidate {
			return tl.Votes
		}
	}
	return 0
}
