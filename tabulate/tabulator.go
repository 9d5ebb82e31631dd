// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"maps"
	"slices"
)

// Tabulate runs the elimination loop over normalized rankings and returns
// every round snapshot plus the terminal outcome.
func Tabulate(rankings []Ranking) History {
	// Pre-pass: a candidate who leads no ballot can never overtake one who does.
	firsts := firstPlaceCounts(rankings)
	var unranked []int
	for _, id := range distinctCandidates(rankings) {
		if _, ok := firsts[id]; !ok {
			unranked = append(unranked, id)
		}
	}

	active := promote(rankings, func(id int) bool {
		_, ok := firsts[id]
		return ok
	})
	rounds := []Round{{Number: 1, Rankings: active, Eliminated: unranked}}

	for len(distinctCandidates(active)) > 1 {
		drops := lowestCandidates(firstPlaceCounts(active))
		active = promote(active, func(id int) bool {
			return !slices.Contains(drops, id)
		})
		rounds = append(rounds, Round{
			Number:     len(rounds) + 1,
			Rankings:   active,
			Eliminated: drops,
		})
	}

	h := History{Rounds: rounds, Outcome: OutcomeNoWinner}
	if remaining := distinctCandidates(active); len(remaining) == 1 {
		winner := remaining[0]
		h.Outcome = OutcomeWinner
		h.Winner = &winner
	}
	return h
}

// firstPlaceCounts counts rank-1 rankings per candidate. Candidates with no
// first-place ranking are absent from the map.
func firstPlaceCounts(rankings []Ranking) map[int]int {
	counts := make(map[int]int)
	for _, rk := range rankings {
		if rk.Rank == 1 {
			counts[rk.CandidateID]++
		}
	}
	return counts
}

// lowestCandidates returns every candidate sharing the minimum count, ascending.
func lowestCandidates(counts map[int]int) []int {
	if len(counts) == 0 {
		return nil
	}
	lowest := slices.Min(slices.Collect(maps.Values(counts)))

	var drops []int
	for id, n := range counts {
		if n == lowest {
			drops = append(drops, id)
		}
	}
	slices.Sort(drops)
	return drops
}

// promote keeps the rankings whose candidate passes keep and re-compacts each
// ballot's surviving ranks to 1..n in their original order. Ballots keep the
// order in which they first appear.
func promote(rankings []Ranking, keep func(candidateID int) bool) []Ranking {
	var order []int
	byBallot := make(map[int][]Ranking)
	for _, rk := range rankings {
		if !keep(rk.CandidateID) {
			continue
		}
		if _, ok := byBallot[rk.BallotID]; !ok {
			order = append(order, rk.BallotID)
		}
		byBallot[rk.BallotID] = append(byBallot[rk.BallotID], rk)
	}

	out := make([]Ranking, 0, len(rankings))
	for _, ballotID := range order {
		ranked := byBallot[ballotID]
		slices.SortStableFunc(ranked, func(a, b Ranking) int { return a.Rank - b.Rank })
		for i, rk := range ranked {
			rk.Rank = i + 1
			out = append(out, rk)
		}
	}
	return out
}

// distinctCandidates returns the candidates referenced by rankings, ascending.
func distinctCandidates(rankings []Ranking) []int {
	seen := make(map[int]struct{})
	for _, rk := range rankings {
		seen[rk.CandidateID] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}
