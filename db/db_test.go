// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"testing"
)

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open("mysql", "root@/runoff")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema call %d failed: %v", i+1, err)
		}
	}

	for _, table := range []string{"election", "candidate", "ballot", "result_snapshot"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	_, err = conn.Exec(`INSERT INTO election (id, title, creator_name) VALUES ('e1', 'Test', 'Alice')`)
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}

	insert := `INSERT INTO candidate (election_id, id, name, party) VALUES ('e1', 0, 'X', 'P')`
	if _, err := conn.Exec(insert); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err = conn.Exec(insert)
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	if IsUniqueViolation(nil) {
		t.Error("nil error is not a unique violation")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("unrelated error reported as unique violation")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	_, err = conn.Exec(`INSERT INTO candidate (election_id, id, name, party) VALUES ('missing', 0, 'X', 'P')`)
	if err == nil {
		t.Error("expected foreign key violation for unknown election")
	}
}
