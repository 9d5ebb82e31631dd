// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import "fmt"

// Normalize flattens ballots into rankings. Rank positions are the original
// slot numbers (1..MaxRanks); unset slots are skipped, so a ballot filled in
// slots 1, 3 and 4 yields ranks {1, 3, 4}.
//
// Ballots without a first choice are not counted at all. A choice naming a
// candidate outside the roster is treated as unset, and a candidate repeated
// on one ballot keeps only its earliest rank.
func Normalize(candidates []Candidate, ballots []Ballot) ([]Ranking, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if len(ballots) == 0 {
		return nil, ErrNoBallots
	}

	roster := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		roster[c.ID] = struct{}{}
	}

	seenBallots := make(map[int]struct{}, len(ballots))
	var rankings []Ranking
	for _, b := range ballots {
		if _, dup := seenBallots[b.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateBallot, b.ID)
		}
		seenBallots[b.ID] = struct{}{}

		first, ok := b.FirstChoice()
		if !ok {
			continue
		}
		if _, known := roster[first]; !known {
			continue
		}

		ranked := make(map[int]struct{}, MaxRanks)
		for i, choice := range b.Choices {
			if i >= MaxRanks {
				break
			}
			if choice == nil {
				continue
			}
			if _, known := roster[*choice]; !known {
				continue
			}
			if _, dup := ranked[*choice]; dup {
				continue
			}
			ranked[*choice] = struct{}{}
			rankings = append(rankings, Ranking{
				BallotID:    b.ID,
				CandidateID: *choice,
				Rank:        i + 1,
			})
		}
	}

	if len(rankings) == 0 {
		return nil, ErrNoBallots
	}
	return rankings, nil
}
