package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/club-leaderboard/internal/repository"
)

var _ repository.SettingsRepository = (*DB)(nil)

const leaderboardVisibleKey = "leaderboard_visible"

// LeaderboardVisible reads the global visibility flag.
//
// The flag defaults to true and is auto-created on first read, so a fresh
// deployment shows the leaderboard until an admin hides it.
func (db *DB) LeaderboardVisible(ctx context.Context) (bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, leaderboardVisibleKey,
	).Scan(&value)

	if err == sql.ErrNoRows {
		if err := db.SetLeaderboardVisible(ctx, true); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: reading leaderboard visibility: %w", err)
	}

	return value == "true", nil
}

// SetLeaderboardVisible writes the global visibility flag.
func (db *DB) SetLeaderboardVisible(ctx context.Context, visible bool) error {
	value := "false"
	if visible {
		value = "true"
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		leaderboardVisibleKey, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing leaderboard visibility: %w", err)
	}
	return nil
}
