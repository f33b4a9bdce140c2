// Package dbtest provides an in-memory database for tests.
package dbtest

import (
	"testing"

	"github.com/fitbloom/fitbloom/internal/db"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// New opens an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	// Every connection to :memory: is a fresh database, so keep exactly one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if err := db.RunMigrations(conn.DB, "sqlite"); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return conn
}
