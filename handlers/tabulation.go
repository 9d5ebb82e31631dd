// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/metrics"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/tabulate"
)

// maxIDAttempts bounds retries when concurrent inserts race for the same id
const maxIDAttempts = 5

var errIDContention = errors.New("could not allocate id after retries")

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// electionInput is everything the tabulator reads for one election
type electionInput struct {
	Candidates []models.Candidate
	Ballots    []models.Ballot
}

// loadInput reads the roster and all ballots of an election
func loadInput(q querier, electionID string) (electionInput, error) {
	candidates, err := getCandidates(q, electionID)
	if err != nil {
		return electionInput{}, fmt.Errorf("failed to get candidates: %w", err)
	}

	ballots, err := getBallots(q, electionID)
	if err != nil {
		return electionInput{}, fmt.Errorf("failed to get ballots: %w", err)
	}

	return electionInput{Candidates: candidates, Ballots: ballots}, nil
}

// getCandidates retrieves the roster in id order
func getCandidates(q querier, electionID string) ([]models.Candidate, error) {
	rows, err := q.Query(`
		SELECT id, election_id, name, party
		FROM candidate
		WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Party); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// getBallots retrieves ballots in submission (id) order
func getBallots(q querier, electionID string) ([]models.Ballot, error) {
	rows, err := q.Query(`
		SELECT id, election_id, choice1, choice2, choice3, choice4, choice5, submitted_at
		FROM ballot
		WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		choices := make([]*int, tabulate.MaxRanks)
		if err := rows.Scan(
			&b.ID, &b.ElectionID,
			&choices[0], &choices[1], &choices[2], &choices[3], &choices[4],
			&b.SubmittedAt,
		); err != nil {
			return nil, err
		}
		b.Choices = choices
		ballots = append(ballots, b)
	}

	return ballots, rows.Err()
}

// Hash fingerprints the tabulation input. Any new candidate or ballot
// changes it.
func (in electionInput) Hash() string {
	data, _ := json.Marshal(struct {
		Candidates []tabulate.Candidate `json:"candidates"`
		Ballots    []tabulate.Ballot    `json:"ballots"`
	}{
		Candidates: models.ToTabulateCandidates(in.Candidates),
		Ballots:    models.ToTabulateBallots(in.Ballots),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// runTabulation runs the engine over in and records the outcome.
// Errors wrapping tabulate.ErrEmptyInput mean there was nothing to count.
func runTabulation(electionID string, in electionInput, m *metrics.Metrics) (*tabulate.Result, error) {
	start := time.Now()
	result, err := tabulate.Run(models.ToTabulateCandidates(in.Candidates), models.ToTabulateBallots(in.Ballots))
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, tabulate.ErrEmptyInput):
		m.ObserveTabulation("empty_input", 0, elapsed)
		slog.Info("nothing to tabulate", "election_id", electionID, "reason", err)
	case err != nil:
		m.ObserveTabulation("error", 0, elapsed)
		slog.Error("tabulation failed", "election_id", electionID, "error", err)
	default:
		m.ObserveTabulation(string(result.Outcome), len(result.Rounds), elapsed)
		slog.Debug("tabulation complete",
			"election_id", electionID,
			"outcome", result.Outcome,
			"rounds", len(result.Rounds),
			"counted", result.Counted,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	return result, err
}

// insertWithNextID allocates the next per-election id of table (0, 1, 2, ...)
// and calls insert with it inside a transaction. A concurrent writer taking
// the same id surfaces as a unique violation and triggers a retry.
func insertWithNextID(conn *sql.DB, table, electionID string, insert func(tx *sql.Tx, id int) error) (int, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := tryInsertWithNextID(conn, table, electionID, insert)
		if db.IsUniqueViolation(err) {
			slog.Debug("id allocation raced, retrying", "table", table, "election_id", electionID, "attempt", attempt+1)
			continue
		}
		return id, err
	}
	return 0, errIDContention
}

func tryInsertWithNextID(conn *sql.DB, table, electionID string, insert func(tx *sql.Tx, id int) error) (int, error) {
	tx, err := conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRow("SELECT COALESCE(MAX(id), -1) + 1 FROM "+table+" WHERE election_id = $1", electionID).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := insert(tx, id); err != nil {
		return 0, err
	}

	return id, tx.Commit()
}
