// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// club dashboard with a few hundred members, a single-file database is plenty,
// and ":memory:" makes repository tests fast and hermetic.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces
// (users, stats, rank overrides, settings, applications).
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/leaderboard.db"  → file-based database (persistent)
//   - ":memory:"             → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// needed for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

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

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this idempotent
// — safe to run on every startup.
func (db *DB) migrate() error {
	// users: one row per GitHub account that has logged in.
	// github_id is UNIQUE — each GitHub account maps to exactly one row.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			github_id    INTEGER NOT NULL UNIQUE,
			login        TEXT NOT NULL,
			email        TEXT NOT NULL DEFAULT '',
			avatar_url   TEXT NOT NULL DEFAULT '',
			role         TEXT NOT NULL DEFAULT 'member',
			github_token TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_login ON users(login);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// contribution_stats: one row per member, overwritten on each refresh.
	// Keyed by GitHub login — the leaderboard's unique identifier.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS contribution_stats (
			login          TEXT PRIMARY KEY,
			total_prs      INTEGER NOT NULL DEFAULT 0,
			merged_prs     INTEGER NOT NULL DEFAULT 0,
			org_prs        INTEGER NOT NULL DEFAULT 0,
			org_merged_prs INTEGER NOT NULL DEFAULT 0,
			commits        INTEGER NOT NULL DEFAULT 0,
			points         INTEGER NOT NULL DEFAULT 0,
			level          TEXT NOT NULL DEFAULT 'Newcomer',
			hidden         INTEGER NOT NULL DEFAULT 0,
			refreshed_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_stats_points ON contribution_stats(points);
	`)
	if err != nil {
		return fmt.Errorf("creating contribution_stats table: %w", err)
	}

	// rank_overrides lives in its own table, not as columns on
	// contribution_stats, so a stats refresh can never clobber an admin's
	// override (and vice versa).
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS rank_overrides (
			login       TEXT PRIMARY KEY,
			manual_rank INTEGER NOT NULL,
			points      INTEGER,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating rank_overrides table: %w", err)
	}

	// settings: simple key/value pairs for global switches.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating settings table: %w", err)
	}

	// applications: recruitment submissions. Rows are never deleted — only
	// their status changes during review.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id           TEXT PRIMARY KEY,
			track        TEXT NOT NULL,
			name         TEXT NOT NULL,
			email        TEXT NOT NULL,
			experience   TEXT NOT NULL DEFAULT '',
			interests    TEXT NOT NULL DEFAULT '',
			why_join     TEXT NOT NULL DEFAULT '',
			github       TEXT NOT NULL DEFAULT '',
			portfolio    TEXT NOT NULL DEFAULT '',
			availability TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL DEFAULT 'pending',
			submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
		CREATE INDEX IF NOT EXISTS idx_applications_track ON applications(track);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}
