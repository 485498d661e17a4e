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

var _ repository.StatsRepository = (*DB)(nil)

// UpsertStats overwrites the stats row for stats.Login. Last writer wins —
// there is no reconciliation between overlapping refreshes, which is fine for
// a dashboard where the next refresh corrects any stale snapshot.
//
// The hidden flag is deliberately NOT part of the upsert: it is an admin
// setting, toggled via SetHidden, and must survive a refresh.
func (db *DB) UpsertStats(ctx context.Context, stats *model.ContributionStats) error {
	if stats.RefreshedAt.IsZero() {
		stats.RefreshedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO contribution_stats
		        (login, total_prs, merged_prs, org_prs, org_merged_prs,
		         commits, points, level, refreshed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(login) DO UPDATE SET
		        total_prs      = excluded.total_prs,
		        merged_prs     = excluded.merged_prs,
		        org_prs        = excluded.org_prs,
		        org_merged_prs = excluded.org_merged_prs,
		        commits        = excluded.commits,
		        points         = excluded.points,
		        level          = excluded.level,
		        refreshed_at   = excluded.refreshed_at`,
		stats.Login,
		stats.TotalPRs,
		stats.MergedPRs,
		stats.OrgPRs,
		stats.OrgMergedPRs,
		stats.Commits,
		stats.Points,
		stats.Level,
		stats.RefreshedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting stats for %s: %w", stats.Login, err)
	}
	return nil
}

// GetStats retrieves one member's stats row.
// Returns apperror.ErrNotFound if the member has never been refreshed.
func (db *DB) GetStats(ctx context.Context, login string) (*model.ContributionStats, error) {
	var s model.ContributionStats

	err := db.conn.QueryRowContext(ctx,
		`SELECT login, total_prs, merged_prs, org_prs, org_merged_prs,
		        commits, points, level, hidden, refreshed_at
		 FROM contribution_stats WHERE login = ?`,
		login,
	).Scan(
		&s.Login,
		&s.TotalPRs,
		&s.MergedPRs,
		&s.OrgPRs,
		&s.OrgMergedPRs,
		&s.Commits,
		&s.Points,
		&s.Level,
		&s.Hidden,
		&s.RefreshedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("stats", login)
		}
		return nil, fmt.Errorf("sqlite: getting stats for %s: %w", login, err)
	}

	return &s, nil
}

// ListStats returns every member's stats, highest points first. The reconciler
// re-sorts anyway, but a deterministic DB order keeps point ties stable across
// reads (the stable sort preserves this order for tied entries).
func (db *DB) ListStats(ctx context.Context) ([]model.ContributionStats, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT login, total_prs, merged_prs, org_prs, org_merged_prs,
		        commits, points, level, hidden, refreshed_at
		 FROM contribution_stats
		 ORDER BY points DESC, login ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing stats: %w", err)
	}
	defer rows.Close()

	var out []model.ContributionStats
	for rows.Next() {
		var s model.ContributionStats
		if err := rows.Scan(
			&s.Login,
			&s.TotalPRs,
			&s.MergedPRs,
			&s.OrgPRs,
			&s.OrgMergedPRs,
			&s.Commits,
			&s.Points,
			&s.Level,
			&s.Hidden,
			&s.RefreshedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning stats row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating stats rows: %w", err)
	}

	return out, nil
}

// SetHidden flips the visibility flag on one member's stats row.
// Returns apperror.ErrNotFound if the member has no stats yet.
func (db *DB) SetHidden(ctx context.Context, login string, hidden bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE contribution_stats SET hidden = ? WHERE login = ?`,
		hidden, login,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting hidden for %s: %w", login, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking hidden update for %s: %w", login, err)
	}
	if affected == 0 {
		return apperror.NotFound("stats", login)
	}
	return nil
}
