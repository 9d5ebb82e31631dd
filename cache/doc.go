// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache stores computed live tallies so repeated admin polling does not
re-run the tabulator on unchanged input.

# Implementations

  - NullCache: never stores anything (no REDIS_URL configured)
  - MemoryCache: in-process map with per-entry expiry (tests, single instance)
  - RedisCache: go-redis backed, shared between server instances

# Keys

TallyKey combines the election ID with the hash of the tabulation inputs:

	key := cache.TallyKey(electionID, inputsHash)

Adding a ballot or candidate changes the inputs hash, so entries never need
explicit invalidation; the TTL only bounds memory.

# Observation

Observe wraps any Cache and reports hits and misses to an Observer (the
metrics package implements it).
*/
package cache
