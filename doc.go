// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Runoff API server.

Runoff runs ranked-choice elections: an organizer builds a candidate roster,
voters rank up to five candidates, and closing the election tabulates the
ballots with instant-runoff rules and seals the round-by-round result.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=runoff.db ADMIN_KEY_SALT=... ELECTION_SLUG_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --admin-salt ... --slug-salt ...

Variables may also come from a .env file (or the file named by ENV_FILE).

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - ELECTION_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - BASE_URL (--base-url): Prefix for share URLs
  - REDIS_URL (--redis): Redis cache for live tallies
  - CACHE_TTL (--cache-ttl): Live tally cache TTL (default: 10m)
  - LOG_LEVEL, LOG_FORMAT: slog level and "json" or text output

# Architecture

The server uses a handler-based architecture with dependency injection:

  - tabulate: The instant-runoff engine (no I/O)
  - handlers: HTTP request handlers (elections, ballots, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request logging, JSON helpers
  - models: Request/response types and JSON Schema
  - auth: Token generation and validation
  - db: Driver selection and schema creation
  - cache: Live tally cache (memory, Redis, or none)
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

The offline tabulation CLI lives in cmd/runoff.
*/
package main
