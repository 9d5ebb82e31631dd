// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
)

// Summarize computes a Tally for every (candidate, round) pair with at least
// one first-place ranking. Tallies come out grouped by round, candidates
// ascending within a round.
func Summarize(rounds []Round) []Tally {
	var tallies []Tally
	for _, r := range rounds {
		counts := firstPlaceCounts(r.Rankings)
		total := 0
		for _, n := range counts {
			total += n
		}
		for _, id := range slices.Sorted(maps.Keys(counts)) {
			tallies = append(tallies, Tally{
				CandidateID: id,
				Round:       r.Number,
				Votes:       counts[id],
				Share:       float64(counts[id]) / float64(total),
			})
		}
	}
	return tallies
}

// OrderNodes assigns each tally a dense display index: round ascending, then
// votes descending. Equal votes keep the incoming tally order. names supplies
// the candidate names used in labels.
func OrderNodes(tallies []Tally, names map[int]string) []Node {
	sorted := slices.Clone(tallies)
	slices.SortStableFunc(sorted, func(a, b Tally) int {
		if c := cmp.Compare(a.Round, b.Round); c != 0 {
			return c
		}
		return cmp.Compare(b.Votes, a.Votes)
	})

	nodes := make([]Node, len(sorted))
	for i, t := range sorted {
		name, ok := names[t.CandidateID]
		if !ok {
			name = "#" + strconv.Itoa(t.CandidateID)
		}
		nodes[i] = Node{
			Index:       i,
			CandidateID: t.CandidateID,
			Round:       t.Round,
			Label:       NodeLabel(name, t.Round),
			Votes:       t.Votes,
			Share:       t.Share,
		}
	}
	return nodes
}

type nodeKey struct {
	candidate int
	round     int
}

type leadPair struct {
	start int
	end   int
}

// BuildFlow joins each ballot's leading candidate in round i with its leading
// candidate in round i+1 and attaches both ends to node indexes. Ballots
// without a leader in either round are left out of the transitions and counted
// in Flow.Exhausted instead.
func BuildFlow(rounds []Round, nodes []Node) (Flow, error) {
	index := make(map[nodeKey]int, len(nodes))
	for _, n := range nodes {
		index[nodeKey{n.CandidateID, n.Round}] = n.Index
	}

	flow := Flow{Nodes: nodes, Transitions: []Transition{}, Exhausted: []Exhaustion{}}
	for i := 0; i+1 < len(rounds); i++ {
		from, to := rounds[i], rounds[i+1]
		startLeaders, endLeaders := from.Leaders(), to.Leaders()

		counts := make(map[leadPair]int)
		exhausted := 0
		for ballotID, start := range startLeaders {
			end, ok := endLeaders[ballotID]
			if !ok {
				exhausted++
				continue
			}
			counts[leadPair{start, end}]++
		}

		pairs := slices.SortedFunc(maps.Keys(counts), func(a, b leadPair) int {
			if c := cmp.Compare(a.start, b.start); c != 0 {
				return c
			}
			return cmp.Compare(a.end, b.end)
		})
		for _, p := range pairs {
			src, ok := index[nodeKey{p.start, from.Number}]
			if !ok {
				return Flow{}, &InconsistencyError{CandidateID: p.start, Round: from.Number}
			}
			dst, ok := index[nodeKey{p.end, to.Number}]
			if !ok {
				return Flow{}, &InconsistencyError{CandidateID: p.end, Round: to.Number}
			}
			flow.Transitions = append(flow.Transitions, Transition{
				Source:         src,
				Target:         dst,
				StartCandidate: p.start,
				EndCandidate:   p.end,
				StartRound:     from.Number,
				EndRound:       to.Number,
				Ballots:        counts[p],
			})
		}

		flow.Exhausted = append(flow.Exhausted, Exhaustion{
			FromRound: from.Number,
			ToRound:   to.Number,
			Ballots:   exhausted,
		})
	}
	return flow, nil
}
