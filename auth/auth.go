// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// NewElectionID returns a random 32-character hex ID for an election
func NewElectionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewSnapshotID returns a time-ordered UUID for a result snapshot, so
// snapshots of one election sort by creation time
func NewSnapshotID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate snapshot ID: %w", err)
	}
	return id.String(), nil
}

// GenerateAdminKey creates an HMAC-based admin key for an election.
// Deterministic, so it never has to be stored.
func GenerateAdminKey(electionID, salt string) string {
	sum := sign(electionID, salt)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateShareSlug creates a short, deterministic URL slug for an election
func GenerateShareSlug(electionID, salt string) string {
	// First 8 bytes are plenty for a slug
	return base62Encode(sign(electionID, salt)[:8])
}

// HashIP creates a one-way hash of an IP address for privacy.
// Salted so hashes cannot be reversed with a lookup table.
func HashIP(ip, salt string) string {
	return hex.EncodeToString(sign(ip, salt)[:8])
}

func sign(value, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	return h.Sum(nil)
}

// base62Encode converts up to 8 bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
