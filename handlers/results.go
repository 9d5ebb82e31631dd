// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cache"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/metrics"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/tabulate"
)

type ResultsHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	cache   cache.Cache
	metrics *metrics.Metrics
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, c cache.Cache, m *metrics.Metrics) *ResultsHandler {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &ResultsHandler{db: db, cfg: cfg, cache: c, metrics: m}
}

// GetElection handles GET /elections/{slug}
// Returns election details and candidates, but NOT results (sealed until closed)
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	election, err := getElection(h.db, "share_slug", shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   election,
		Candidates: candidates,
	})
}

// GetResults handles GET /elections/{slug}/results
// Returns 403 until the election is closed, then the sealed snapshot
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	election, snapshot, ok := h.loadSealedSnapshot(w, shareSlug)
	if !ok {
		return
	}

	var ballotCount int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, election.ID).Scan(&ballotCount)

	if err != nil {
		slog.Error("failed to count ballots for results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := map[string]any{
		"election":     election,
		"result":       snapshot,
		"ballot_count": ballotCount,
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// GetFlow handles GET /elections/{slug}/flow
// Returns the sealed vote flow shaped for a Sankey renderer
func (h *ResultsHandler) GetFlow(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	_, snapshot, ok := h.loadSealedSnapshot(w, shareSlug)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NewFlowResponse(snapshot.Flow))
}

// loadSealedSnapshot fetches the final snapshot of a closed election. It
// writes the error response itself and reports false when there is none.
func (h *ResultsHandler) loadSealedSnapshot(w http.ResponseWriter, shareSlug string) (models.Election, models.ResultSnapshot, bool) {
	election, err := getElection(h.db, "share_slug", shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return election, models.ResultSnapshot{}, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return election, models.ResultSnapshot{}, false
	}

	// Results are sealed while the election is open
	if election.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election is closed")
		return election, models.ResultSnapshot{}, false
	}

	if election.FinalSnapshotID == nil {
		slog.Error("closed election has no snapshot", "slug", shareSlug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Results not available")
		return election, models.ResultSnapshot{}, false
	}

	var payload string
	err = h.db.QueryRow(`
		SELECT payload FROM result_snapshot WHERE id = $1
	`, *election.FinalSnapshotID).Scan(&payload)

	if err != nil {
		slog.Error("failed to query snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return election, models.ResultSnapshot{}, false
	}

	var snapshot models.ResultSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		slog.Error("failed to parse snapshot payload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to parse results")
		return election, models.ResultSnapshot{}, false
	}

	return election, snapshot, true
}

// GetLiveTally handles GET /elections/{id}/tally
// Admin-only provisional count over the ballots received so far. Results are
// cached under the election's current input hash.
func (h *ResultsHandler) GetLiveTally(w http.ResponseWriter, r *http.Request) {
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
		slog.Error("failed to load tabulation input", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	inputsHash := input.Hash()
	key := cache.TallyKey(electionID, inputsHash)

	ctx := r.Context()
	if data, hit, err := h.cache.Get(ctx, key); err != nil {
		slog.Warn("tally cache lookup failed", "error", err, "election_id", electionID)
	} else if hit {
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	result, err := runTabulation(electionID, input, h.metrics)
	if errors.Is(err, tabulate.ErrEmptyInput) {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Tabulation failed")
		return
	}

	snapshot := models.NewResultSnapshot("", electionID, inputsHash, time.Now().UTC(), result)

	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("failed to encode tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode tally")
		return
	}
	data = append(data, '\n')

	if err := h.cache.Set(ctx, key, data, h.cfg.CacheTTL); err != nil {
		slog.Warn("tally cache store failed", "error", err, "election_id", electionID)
	}

	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetBallotCount handles GET /elections/{slug}/ballot-count
// Returns the number of ballots recorded (visible even while open)
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
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

	var count int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, electionID).Scan(&count)

	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"ballot_count": count,
	})
}

// GetPreview handles GET /elections/{slug}/preview
// Returns compact election data for link previews
func (h *ResultsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var electionID, title, status string
	err := h.db.QueryRow(`
		SELECT id, title, status FROM election WHERE share_slug = $1
	`, shareSlug).Scan(&electionID, &title, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var candidateCount, ballotCount int
	err = h.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM candidate WHERE election_id = $1),
			(SELECT COUNT(*) FROM ballot WHERE election_id = $1)
	`, electionID).Scan(&candidateCount, &ballotCount)
	if err != nil {
		slog.Error("failed to count candidates and ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionPreviewResponse{
		Title:          title,
		Status:         status,
		CandidateCount: candidateCount,
		BallotCount:    ballotCount,
	})
}

// BallotSchema handles GET /schema/ballot
func (h *ResultsHandler) BallotSchema(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.BallotSchema)
}
