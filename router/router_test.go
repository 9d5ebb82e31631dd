// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/runoff/cache"
	"github.com/danielhkuo/runoff/metrics"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/testutil"
)

func newTestMux(t *testing.T) (*http.ServeMux, *metrics.Metrics) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m := metrics.New()
	return NewRouter(db, testutil.GetTestConfig(), cache.NewMemoryCache(), m), m
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "runoff API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestMux(t)

	// 400, 401, 403, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		// Health, metrics and root
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/"},

		// Election management routes (these use {id} param and may return auth errors)
		{"POST", "/elections"},
		{"GET", "/elections/test-id/admin"},
		{"POST", "/elections/test-id/candidates"},
		{"POST", "/elections/test-id/open"},
		{"POST", "/elections/test-id/close"},
		{"GET", "/elections/test-id/ballots"},
		{"GET", "/elections/test-id/tally"},

		// Public routes (these use {slug} param)
		{"GET", "/elections/test-slug/candidates"},
		{"POST", "/elections/test-slug/ballots"},
		{"GET", "/elections/test-slug"},
		{"GET", "/elections/test-slug/results"},
		{"GET", "/elections/test-slug/flow"},
		{"GET", "/elections/test-slug/ballot-count"},
		{"GET", "/elections/test-slug/preview"},
		{"GET", "/schema/ballot"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},                    // Only GET is defined
		{"DELETE", "/elections/test-id/admin"}, // Only GET is defined
		{"PUT", "/elections/test-id/candidates"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	electionID, adminKey, slug := testutil.CreateTestElection(t, db, cfg, "open")
	testutil.AddTestCandidate(t, db, electionID, "Ann", "Blue")

	mux := NewRouter(db, cfg, nil, nil)

	t.Run("election ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/"+electionID+"/admin", nil)
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with valid admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("share slug extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/"+slug+"/candidates", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for roster, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}

func TestRequestIDHeader(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/schema/ballot", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("Expected logged routes to carry a request ID")
	}
}

func TestMetricsRecordRoutes(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest("GET", "/elections/missing/preview", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", w.Code)
	}
	want := `runoff_http_requests_total{route="GET /elections/{slug}/preview",status="404"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("Expected metrics to contain %q", want)
	}
}
