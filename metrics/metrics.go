// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "runoff"

// Metrics holds the server's collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	tabulations       *prometheus.CounterVec
	tabulationTime    prometheus.Histogram
	tabulationRounds  prometheus.Histogram
	ballotsSubmitted  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tally_cache_hits_total",
			Help:      "Live tally cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tally_cache_misses_total",
			Help:      "Live tally cache misses.",
		}),
		tabulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabulations_total",
			Help:      "Tabulation runs by outcome (winner, no_winner, empty_input, error).",
		}, []string{"outcome"}),
		tabulationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tabulation_duration_seconds",
			Help:      "Histogram of tabulation run durations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		tabulationRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tabulation_rounds",
			Help:      "Number of rounds per completed tabulation.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		ballotsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ballots_submitted_total",
			Help:      "Ballot submissions by whether they were recorded.",
		}, []string{"recorded"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.tabulations,
		m.tabulationTime,
		m.tabulationRounds,
		m.ballotsSubmitted,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and observes durations under the route label.
// Use the route pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// ObserveTabulation records one engine run. rounds is ignored unless the run
// produced a result.
func (m *Metrics) ObserveTabulation(outcome string, rounds int, d time.Duration) {
	if m == nil {
		return
	}
	m.tabulations.WithLabelValues(outcome).Inc()
	m.tabulationTime.Observe(d.Seconds())
	if rounds > 0 {
		m.tabulationRounds.Observe(float64(rounds))
	}
}

func (m *Metrics) BallotSubmitted(recorded bool) {
	if m == nil {
		return
	}
	m.ballotsSubmitted.WithLabelValues(strconv.FormatBool(recorded)).Inc()
}
