package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWrapHandler(t *testing.T) {
	m := New()
	h := m.WrapHandler("GET /elections/{slug}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/elections/abc", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected wrapped status to pass through, got %d", w.Code)
		}
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET /elections/{slug}", "404"))
	if got != 3 {
		t.Errorf("expected 3 requests counted, got %v", got)
	}
}

func TestWrapHandler_DefaultStatus(t *testing.T) {
	m := New()
	h := m.WrapHandler("GET /health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET /health", "200")); got != 1 {
		t.Errorf("expected implicit 200 to be counted, got %v", got)
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveTabulation("winner", 3, time.Millisecond)
	m.ObserveTabulation("empty_input", 0, time.Microsecond)
	m.BallotSubmitted(true)
	m.BallotSubmitted(false)
	m.BallotSubmitted(true)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"cache hits", testutil.ToFloat64(m.cacheHits), 1},
		{"cache misses", testutil.ToFloat64(m.cacheMisses), 2},
		{"winner runs", testutil.ToFloat64(m.tabulations.WithLabelValues("winner")), 1},
		{"empty runs", testutil.ToFloat64(m.tabulations.WithLabelValues("empty_input")), 1},
		{"recorded ballots", testutil.ToFloat64(m.ballotsSubmitted.WithLabelValues("true")), 2},
		{"unrecorded ballots", testutil.ToFloat64(m.ballotsSubmitted.WithLabelValues("false")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveTabulation("no_winner", 2, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`runoff_tabulations_total{outcome="no_winner"} 1`,
		"runoff_tabulation_rounds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	m.CacheHit()
	m.CacheMiss()
	m.ObserveTabulation("winner", 1, time.Second)
	m.BallotSubmitted(true)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	m.WrapHandler("GET /", next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("nil metrics should still call the wrapped handler")
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil metrics handler, got %d", w.Code)
	}
}
