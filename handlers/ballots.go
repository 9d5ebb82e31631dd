// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/metrics"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/tabulate"
)

var errElectionNotOpen = errors.New("election is not open")

type BallotHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg, metrics: m}
}

// SubmitBallot handles POST /elections/{slug}/ballots
// A ballot without a first choice is acknowledged but not recorded.
func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Choices) > tabulate.MaxRanks {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("at most %d choices allowed", tabulate.MaxRanks))
		return
	}

	var electionID, status string
	err := h.db.QueryRow(`
		SELECT id, status FROM election WHERE share_slug = $1
	`, shareSlug).Scan(&electionID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	candidates, err := getCandidates(h.db, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := validateChoices(req.Choices, candidates); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Choices) == 0 || req.Choices[0] == nil {
		h.metrics.BallotSubmitted(false)
		slog.Info("ballot without first choice ignored", "election_id", electionID)
		middleware.JSONResponse(w, http.StatusOK, models.SubmitBallotResponse{
			Recorded: false,
			Message:  "Ballot has no first choice and was not recorded",
		})
		return
	}

	var cols [tabulate.MaxRanks]*int
	copy(cols[:], req.Choices)

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	userAgent := r.UserAgent()

	ballotID, err := insertWithNextID(h.db, "ballot", electionID, func(tx *sql.Tx, id int) error {
		// Re-check inside the transaction so a concurrent close wins cleanly
		var current string
		if err := tx.QueryRow("SELECT status FROM election WHERE id = $1", electionID).Scan(&current); err != nil {
			return err
		}
		if current != models.StatusOpen {
			return errElectionNotOpen
		}

		_, err := tx.Exec(`
			INSERT INTO ballot (election_id, id, choice1, choice2, choice3, choice4, choice5, ip_hash, user_agent, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, electionID, id, cols[0], cols[1], cols[2], cols[3], cols[4], ipHash, userAgent, time.Now().UTC())
		return err
	})

	if errors.Is(err, errElectionNotOpen) {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}
	if err != nil {
		slog.Error("failed to insert ballot", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	h.metrics.BallotSubmitted(true)
	slog.Info("ballot submitted", "election_id", electionID, "ballot_id", ballotID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: &ballotID,
		Recorded: true,
		Message:  "Ballot submitted successfully",
	})
}

// validateChoices checks that every selected candidate is on the roster and
// appears at most once.
func validateChoices(choices []*int, roster []models.Candidate) error {
	known := make(map[int]bool, len(roster))
	for _, c := range roster {
		known[c.ID] = true
	}

	seen := make(map[int]bool, len(choices))
	for i, choice := range choices {
		if choice == nil {
			continue
		}
		if !known[*choice] {
			return fmt.Errorf("choice %d: unknown candidate %d", i+1, *choice)
		}
		if seen[*choice] {
			return fmt.Errorf("choice %d: candidate %d is already ranked", i+1, *choice)
		}
		seen[*choice] = true
	}
	return nil
}

// ListCandidates handles GET /elections/{slug}/candidates
// Returns the roster for the ballot dropdowns.
func (h *BallotHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var electionID string
	err := h.db.QueryRow(`
		SELECT id FROM election WHERE share_slug = $1
	`, shareSlug).Scan(&electionID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// ListBallots handles GET /elections/{id}/ballots
// Admin view of every ballot with choices resolved to candidate names.
func (h *BallotHandler) ListBallots(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var exists int
	err := h.db.QueryRow("SELECT 1 FROM election WHERE id = $1", electionID).Scan(&exists)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	input, err := loadInput(h.db, electionID)
	if err != nil {
		slog.Error("failed to load ballots", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	names := make(map[int]string, len(input.Candidates))
	for _, c := range input.Candidates {
		names[c.ID] = c.Name
	}

	views := make([]models.BallotView, 0, len(input.Ballots))
	for _, b := range input.Ballots {
		view := models.BallotView{ID: b.ID, Choices: make([]*string, len(b.Choices))}
		for i, choice := range b.Choices {
			if choice == nil {
				continue
			}
			name, ok := names[*choice]
			if !ok {
				name = fmt.Sprintf("#%d", *choice)
			}
			view.Choices[i] = &name
		}
		views = append(views, view)
	}

	middleware.JSONResponse(w, http.StatusOK, views)
}
