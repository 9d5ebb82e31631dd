// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration
for the runoff server.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path/DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ElectionSlugSalt: Secret for share slug generation (required)
  - BaseURL: Public origin used to build share URLs
  - RedisURL: Optional Redis URL for the live tally cache
  - CacheTTL: Live tally cache lifetime (default: 10m)
  - LogLevel, LogFormat: slog level and "text" or "json" output

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--base-url    Public base URL
	--redis       Redis URL
	--cache-ttl   Tally cache TTL
	--admin-salt  Admin key salt
	--slug-salt   Election slug salt

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	BASE_URL           → --base-url
	REDIS_URL          → --redis
	CACHE_TTL          → --cache-ttl
	ADMIN_KEY_SALT     → --admin-salt
	ELECTION_SLUG_SALT → --slug-salt
	LOG_LEVEL, LOG_FORMAT

CLI flags take precedence over environment variables. Before parsing, a
.env file (or the file named by ENV_FILE) is loaded with godotenv; it never
overrides variables that are already set, and a missing file is ignored.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL, ADMIN_KEY_SALT or ELECTION_SLUG_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - PORT or CACHE_TTL cannot be parsed
*/
package cliparse
