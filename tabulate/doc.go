// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tabulate implements instant-runoff (ranked-choice) tabulation.

The engine has three stages, each feeding the next:

	Normalize  → []Ranking   (ballot, candidate, rank) facts
	Tabulate   → History     elimination rounds + outcome
	Summarize  → []Tally     first-place votes per candidate per round
	OrderNodes → []Node      display order for a flow diagram
	BuildFlow  → Flow        ballot transfers between consecutive rounds

Run chains all of them:

	result, err := tabulate.Run(candidates, ballots)
	if errors.Is(err, tabulate.ErrEmptyInput) {
		// nothing to tabulate; leave prior state alone
	}

# Elimination

Round 1 drops every candidate who is not the first choice of any ballot.
Each later round drops every candidate tied at the lowest first-place count,
all at once. There is no random or lexicographic tie-break and no early stop
on an outright majority: elimination continues until one candidate remains
(OutcomeWinner) or the last tie removed everyone (OutcomeNoWinner).

After each elimination the surviving choices on every ballot are re-compacted
to ranks 1..n, keeping their relative order.

# Flow

Tallies are ordered by round ascending, then votes descending; candidates tied
on votes keep candidate ID order. Transitions count ballots whose leading
candidate was Start in round i and End in round i+1. Exhausted ballots (no
leading candidate in round i+1) belong to no transition; their count per step
is reported in Flow.Exhausted.

A transition whose endpoint has no node is a construction bug and is returned
as an *InconsistencyError.

Every call works on its own copies of the input. The package holds no global
state and is safe to call from multiple goroutines.
*/
package tabulate
