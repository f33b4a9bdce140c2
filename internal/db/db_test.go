package db_test

import (
	"errors"
	"testing"

	"github.com/fitbloom/fitbloom/internal/db"
	"github.com/fitbloom/fitbloom/internal/db/dbtest"
	"github.com/jmoiron/sqlx"
)

func TestMigrationsApplied(t *testing.T) {
	conn := dbtest.New(t)

	version, err := db.Version(conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version < 1 {
		t.Fatalf("version = %d, want >= 1", version)
	}

	for _, table := range []string{"users", "doctors", "goals", "goal_logs", "consultations", "articles", "files"} {
		var n int
		err := conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	conn := dbtest.New(t)
	boom := errors.New("boom")

	err := db.Tx(conn, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		                   VALUES ('u1', 'Ann', 'ann@example.com', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		if err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("users = %d after rollback, want 0", n)
	}
}

func TestTxCommits(t *testing.T) {
	conn := dbtest.New(t)

	err := db.Tx(conn, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		                   VALUES ('u1', 'Ann', 'ann@example.com', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}
