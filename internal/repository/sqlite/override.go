package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/club-leaderboard/internal/apperror"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository"
)

var _ repository.OverrideRepository = (*DB)(nil)

// SetOverride inserts or replaces the manual rank for a login.
func (db *DB) SetOverride(ctx context.Context, override *model.RankOverride) error {
	if override.UpdatedAt.IsZero() {
		override.UpdatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO rank_overrides (login, manual_rank, points, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(login) DO UPDATE SET
		        manual_rank = excluded.manual_rank,
		        points      = excluded.points,
		        updated_at  = excluded.updated_at`,
		override.Login,
		override.ManualRank,
		override.Points,
		override.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting rank override for %s: %w", override.Login, err)
	}
	return nil
}

// GetOverride retrieves the manual rank for a login, if one is set.
func (db *DB) GetOverride(ctx context.Context, login string) (*model.RankOverride, error) {
	var o model.RankOverride

	err := db.conn.QueryRowContext(ctx,
		`SELECT login, manual_rank, points, updated_at
		 FROM rank_overrides WHERE login = ?`,
		login,
	).Scan(&o.Login, &o.ManualRank, &o.Points, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("rank override", login)
		}
		return nil, fmt.Errorf("sqlite: getting rank override for %s: %w", login, err)
	}

	return &o, nil
}

// DeleteOverride removes the manual rank for a login.
// Returns apperror.ErrNotFound if no override exists.
func (db *DB) DeleteOverride(ctx context.Context, login string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM rank_overrides WHERE login = ?`, login,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting rank override for %s: %w", login, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking override delete for %s: %w", login, err)
	}
	if affected == 0 {
		return apperror.NotFound("rank override", login)
	}
	return nil
}

// ListOverrides returns every manual rank, ascending.
func (db *DB) ListOverrides(ctx context.Context) ([]model.RankOverride, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT login, manual_rank, points, updated_at
		 FROM rank_overrides ORDER BY manual_rank ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing rank overrides: %w", err)
	}
	defer rows.Close()

	var out []model.RankOverride
	for rows.Next() {
		var o model.RankOverride
		if err := rows.Scan(&o.Login, &o.ManualRank, &o.Points, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rank override row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating rank override rows: %w", err)
	}

	return out, nil
}
