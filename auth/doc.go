// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys, share slugs and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. The same election ID and
salt always produce the same key, so keys are validated without storage.

# Share Slugs

Share slugs are URL-friendly identifiers for open elections:

	slug := auth.GenerateShareSlug(electionID, salt)

Slugs are base62 encoded (alphanumeric only) and deterministic.

# ID Generation

Election and snapshot IDs come from github.com/google/uuid:

	id := auth.NewElectionID()         // 32 hex characters (UUIDv4)
	snapID, err := auth.NewSnapshotID() // UUIDv7, time-ordered

Candidate and ballot IDs are not generated here; they are sequential per
election (0, then max+1) and allocated by the handlers.

# IP Hashing

Ballots store the submitter's IP only as a salted hash:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
