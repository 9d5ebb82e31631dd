// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danielhkuo/runoff/tabulate"
)

var (
	errUnknownFormat       = errors.New("unknown election file format")
	errDuplicateCandidate  = errors.New("duplicate candidate id")
	errTooManyChoicesInput = fmt.Errorf("ballot ranks more than %d choices", tabulate.MaxRanks)
)

// electionFile is the on-disk form of an election.
type electionFile struct {
	Title      string               `json:"title,omitempty" toml:"title" jsonschema:"description=Display title of the election"`
	Candidates []tabulate.Candidate `json:"candidates" toml:"candidates" jsonschema:"required,description=Election roster"`
	Ballots    []fileBallot         `json:"ballots" toml:"ballots" jsonschema:"required,description=Cast ballots"`
}

type fileBallot struct {
	ID      *int   `json:"id,omitempty" toml:"id" jsonschema:"description=Ballot id; defaults to the position in the file"`
	Choices []*int `json:"choices" toml:"choices" jsonschema:"maxItems=5,description=Candidate ids in preference order; null or negative leaves a rank unset"`
}

// loadElection reads an election file, choosing the decoder by extension.
// Files without a .toml or .json extension are sniffed: a leading '{' means JSON.
func loadElection(path string) (*electionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format != "toml" && format != "json" {
		format = "toml"
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			format = "json"
		}
	}

	ef, err := decodeElection(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ef, nil
}

func decodeElection(data []byte, format string) (*electionFile, error) {
	var ef electionFile
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), &ef); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ef); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	if err := ef.validate(); err != nil {
		return nil, err
	}
	return &ef, nil
}

func (ef *electionFile) validate() error {
	seen := make(map[int]bool, len(ef.Candidates))
	for _, c := range ef.Candidates {
		if seen[c.ID] {
			return fmt.Errorf("%w: %d", errDuplicateCandidate, c.ID)
		}
		seen[c.ID] = true
	}
	for i, b := range ef.Ballots {
		if len(b.Choices) > tabulate.MaxRanks {
			return fmt.Errorf("ballot %d: %w", i, errTooManyChoicesInput)
		}
	}
	return nil
}

// input converts the file into engine input. Negative choices become unset
// ranks and missing ballot ids take the ballot's position.
func (ef *electionFile) input() ([]tabulate.Candidate, []tabulate.Ballot) {
	ballots := make([]tabulate.Ballot, len(ef.Ballots))
	for i, fb := range ef.Ballots {
		id := i
		if fb.ID != nil {
			id = *fb.ID
		}
		choices := make([]*int, len(fb.Choices))
		for j, c := range fb.Choices {
			if c != nil && *c >= 0 {
				v := *c
				choices[j] = &v
			}
		}
		ballots[i] = tabulate.Ballot{ID: id, Choices: choices}
	}
	return ef.Candidates, ballots
}
