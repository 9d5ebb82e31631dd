// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for HTTP traffic, the live
// tally cache and tabulation runs. Collectors live in a private registry
// served by Handler at GET /metrics.
package metrics
