// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides database fixtures and HTTP helpers shared by
// handler and router tests. Every test gets its own in-memory SQLite
// database, so no external server is needed.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
)

// TestDBURL opens a private in-memory SQLite database
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      TestDBURL,
		DatabaseType:     db.TypeSQLite,
		AdminKeySalt:     "test-admin-salt",
		ElectionSlugSalt: "test-slug-salt",
		BaseURL:          "http://localhost:3318",
		CacheTTL:         time.Minute,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// CreateTestElection creates an election and returns its ID, admin key and
// share slug. status should be "draft", "open", or "closed"; the slug is
// empty for drafts.
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey, shareSlug string) {
	t.Helper()

	electionID = auth.NewElectionID()
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(electionID, cfg.ElectionSlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now().UTC()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, creator_name, status, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Election', 'A test election', 'TestUser', $2, $3, $4, $5)
	`, electionID, status, slug, closedAt, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey, shareSlug
}

// AddTestCandidate appends a candidate to the roster and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name, party string) int {
	t.Helper()

	id := nextID(t, conn, "candidate", electionID)
	_, err := conn.Exec(`
		INSERT INTO candidate (election_id, id, name, party)
		VALUES ($1, $2, $3, $4)
	`, electionID, id, name, party)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// SubmitTestBallot stores a ballot directly and returns its ID. choices uses
// -1 for an unset rank; the first choice must be set.
func SubmitTestBallot(t *testing.T, conn *sql.DB, electionID string, choices ...int) int {
	t.Helper()

	var cols [5]*int
	for i, c := range choices {
		if i >= len(cols) {
			break
		}
		if c >= 0 {
			v := c
			cols[i] = &v
		}
	}

	id := nextID(t, conn, "ballot", electionID)
	_, err := conn.Exec(`
		INSERT INTO ballot (election_id, id, choice1, choice2, choice3, choice4, choice5, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, electionID, id, cols[0], cols[1], cols[2], cols[3], cols[4], time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return id
}

func nextID(t *testing.T, conn *sql.DB, table, electionID string) int {
	t.Helper()

	var id int
	err := conn.QueryRow(
		"SELECT COALESCE(MAX(id), -1) + 1 FROM "+table+" WHERE election_id = $1", electionID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to allocate %s id: %v", table, err)
	}
	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// IntPtr returns a pointer to v, for building ballot choice lists
func IntPtr(v int) *int {
	return &v
}
