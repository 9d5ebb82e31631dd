// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver by database type:

	conn, err := db.Open(db.TypeSQLite, "file:runoff.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

PostgreSQL uses github.com/lib/pq and SQLite uses modernc.org/sqlite. SQLite
connections are limited to one open connection with foreign keys enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: Election metadata and lifecycle state
  - candidate: Append-only roster, (election_id, id) primary key
  - ballot: Append-only ranked ballots, choice1..choice5
  - result_snapshot: Immutable tabulation results (JSON payload)

# Relationships

	election 1──* candidate
	election 1──* ballot
	election 1──* result_snapshot

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation recognizes duplicate-key errors from both drivers so
callers can retry ID allocation.
*/
package db
