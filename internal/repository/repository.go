// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests use in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/club-leaderboard/internal/model"
)

type UserRepository interface {
	// Upsert inserts or updates a user keyed by GitHub ID. On return the
	// user's internal ID and timestamps are populated.
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}

type StatsRepository interface {
	// UpsertStats overwrites the stats row for stats.Login (last writer wins).
	UpsertStats(ctx context.Context, stats *model.ContributionStats) error
	GetStats(ctx context.Context, login string) (*model.ContributionStats, error)
	ListStats(ctx context.Context) ([]model.ContributionStats, error)
	// SetHidden flips the visibility flag on one member's stats row.
	SetHidden(ctx context.Context, login string, hidden bool) error
}

type OverrideRepository interface {
	SetOverride(ctx context.Context, override *model.RankOverride) error
	GetOverride(ctx context.Context, login string) (*model.RankOverride, error)
	DeleteOverride(ctx context.Context, login string) error
	ListOverrides(ctx context.Context) ([]model.RankOverride, error)
}

type SettingsRepository interface {
	// LeaderboardVisible reads the global visibility flag, creating it with
	// the default (true) on first read.
	LeaderboardVisible(ctx context.Context) (bool, error)
	SetLeaderboardVisible(ctx context.Context, visible bool) error
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)
	// ListApplications filters by track and/or status; empty values mean "all".
	ListApplications(ctx context.Context, track model.ApplicationTrack, status model.ApplicationStatus) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}
