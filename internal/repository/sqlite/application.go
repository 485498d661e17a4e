package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/club-leaderboard/internal/apperror"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository"
)

var _ repository.ApplicationRepository = (*DB)(nil)

// CreateApplication inserts a new submission. The repository assigns the ID
// (xid: time-ordered plus random, so IDs sort by submission time) and the
// timestamp, and forces the initial status to pending.
func (db *DB) CreateApplication(ctx context.Context, app *model.Application) error {
	app.ID = xid.New().String()
	app.Status = model.StatusPending
	app.SubmittedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applications
		        (id, track, name, email, experience, interests, why_join,
		         github, portfolio, availability, status, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.Track,
		app.Name,
		app.Email,
		app.Experience,
		app.Interests,
		app.WhyJoin,
		app.GitHub,
		app.Portfolio,
		app.Availability,
		app.Status,
		app.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting application: %w", err)
	}
	return nil
}

// GetApplicationByID retrieves one application.
// Returns apperror.ErrNotFound if no application exists with that ID.
func (db *DB) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	var a model.Application

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, track, name, email, experience, interests, why_join,
		        github, portfolio, availability, status, submitted_at
		 FROM applications WHERE id = ?`,
		id,
	).Scan(
		&a.ID,
		&a.Track,
		&a.Name,
		&a.Email,
		&a.Experience,
		&a.Interests,
		&a.WhyJoin,
		&a.GitHub,
		&a.Portfolio,
		&a.Availability,
		&a.Status,
		&a.SubmittedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}

	return &a, nil
}

// ListApplications returns applications newest first, optionally filtered by
// track and/or status. Empty filter values mean "all".
func (db *DB) ListApplications(ctx context.Context, track model.ApplicationTrack, status model.ApplicationStatus) ([]model.Application, error) {
	query := `SELECT id, track, name, email, experience, interests, why_join,
	                 github, portfolio, availability, status, submitted_at
	          FROM applications WHERE 1=1`
	var args []any

	if track != "" {
		query += ` AND track = ?`
		args = append(args, track)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications: %w", err)
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID,
			&a.Track,
			&a.Name,
			&a.Email,
			&a.Experience,
			&a.Interests,
			&a.WhyJoin,
			&a.GitHub,
			&a.Portfolio,
			&a.Availability,
			&a.Status,
			&a.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating application rows: %w", err)
	}

	return out, nil
}

// UpdateApplicationStatus moves an application through the review lifecycle.
// Returns apperror.ErrNotFound if no application exists with that ID.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s status: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking status update for %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("application", id)
	}
	return nil
}
