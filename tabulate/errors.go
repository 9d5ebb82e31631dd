// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is the parent of every "nothing to tabulate" condition.
	// Callers skip tabulation on it and leave prior results untouched.
	ErrEmptyInput = errors.New("nothing to tabulate")

	// ErrNoCandidates is returned by Normalize when the roster is empty.
	ErrNoCandidates = fmt.Errorf("%w: no candidates", ErrEmptyInput)

	// ErrNoBallots is returned by Normalize when no ballot carries a valid
	// first choice.
	ErrNoBallots = fmt.Errorf("%w: no ballots with a first choice", ErrEmptyInput)

	// ErrDuplicateBallot is returned by Normalize when two ballots share an ID.
	ErrDuplicateBallot = errors.New("duplicate ballot id")

	// ErrInconsistentFlow is wrapped by InconsistencyError.
	ErrInconsistentFlow = errors.New("flow references a node that was never tallied")
)

// InconsistencyError reports a transition endpoint with no NodeOrder entry.
// It means tally and flow construction disagree and the run must be discarded.
type InconsistencyError struct {
	CandidateID int
	Round       int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%v: candidate %d, round %d", ErrInconsistentFlow, e.CandidateID, e.Round)
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistentFlow }
