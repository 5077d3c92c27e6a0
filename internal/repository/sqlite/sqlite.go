// Package sqlite implements the repository interfaces on SQLite.
//
// WHY SQLITE?
// SQLite is an embedded database — a single file, no separate server to
// install or manage. For a single-binary API like this one it covers the
// whole storage story, and ":memory:" gives tests a real SQL engine with
// zero setup.
//
// WHY modernc.org/sqlite INSTEAD OF mattn/go-sqlite3?
// mattn/go-sqlite3 needs CGo (a C compiler, painful cross-compilation).
// modernc.org/sqlite is a pure-Go translation of the SQLite sources — it
// builds everywhere Go builds.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and hands out the per-table repositories via
// Users() and Posts(). The server owns the lifecycle: New opens and
// migrates, Close flushes and releases the file lock.
type DB struct {
	conn *sql.DB
}

// Users returns the UserRepository implementation backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Posts returns the PostRepository implementation backed by this database.
func (db *DB) Posts() *PostDB {
	return &PostDB{conn: db.conn}
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// With ":memory:" every pooled connection would get its OWN empty
	// database; pin the pool to a single connection so tests see one schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only builds the pool; Ping forces a real connection so a
	// bad path surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed concurrently with a write — important for a
	// web server where list requests arrive while posts are inserted.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The posts→users relation
	// depends on this pragma being on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every startup.
//
// Email uniqueness lives HERE, as a UNIQUE constraint: the store is the
// only place that can enforce it race-free. The collation is SQLite's
// default BINARY, so emails are compared case-sensitively.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id IS NOT NULL;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			text       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE-constraint failure on
// the given column (e.g. "users.email"). modernc.org/sqlite surfaces
// constraint violations as plain errors whose message carries the SQLite
// text "UNIQUE constraint failed: <table>.<column>".
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
