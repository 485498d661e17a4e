package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/club-leaderboard/internal/apperror"
	"github.com/sakif/club-leaderboard/internal/github"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository"
	"github.com/sakif/club-leaderboard/internal/scoring"
)

// ContributionSource is the slice of the GitHub client the refresh pipeline
// needs. *github.Client satisfies it; tests substitute a fake.
type ContributionSource interface {
	Viewer(ctx context.Context, token string) (*github.Viewer, error)
	Contributions(ctx context.Context, token, login string) model.ContributionStats
	OrgCommits(ctx context.Context, token, login string) int
}

// LeaderboardService orchestrates the refresh pipeline (GitHub → scoring →
// persistence) and the reconciled leaderboard view (stats + overrides +
// visibility flag).
type LeaderboardService struct {
	users     repository.UserRepository
	stats     repository.StatsRepository
	overrides repository.OverrideRepository
	settings  repository.SettingsRepository
	gh        ContributionSource

	// fallbackToken is a server-level GitHub token (GITHUB_TOKEN env var)
	// used when a member has no stored OAuth token, e.g. an admin refreshing
	// someone who has never logged in here.
	fallbackToken string

	logger *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(
	users repository.UserRepository,
	stats repository.StatsRepository,
	overrides repository.OverrideRepository,
	settings repository.SettingsRepository,
	gh ContributionSource,
	fallbackToken string,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		users:         users,
		stats:         stats,
		overrides:     overrides,
		settings:      settings,
		gh:            gh,
		fallbackToken: fallbackToken,
		logger:        logger,
	}
}

// RefreshSelf refreshes the calling user's own stats.
//
// The member's stored OAuth token is resolved to a GitHub identity first.
// That lookup is the one hard failure in the pipeline: if we can't confirm
// who the token belongs to, there is nothing to aggregate for, and the error
// propagates (the handler maps it to a 500). Everything downstream degrades
// to zeros instead of failing.
func (s *LeaderboardService) RefreshSelf(ctx context.Context, userID string) (*model.ContributionStats, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: resolving user %s: %w", userID, err)
	}

	token := user.GitHubToken
	if token == "" {
		token = s.fallbackToken
	}

	viewer, err := s.gh.Viewer(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: resolving GitHub identity: %w", err)
	}

	return s.refresh(ctx, token, viewer.Login)
}

// RefreshUser refreshes stats for an arbitrary login (admin action).
// If the member has logged in here, their stored token is used; otherwise the
// server-level fallback token.
func (s *LeaderboardService) RefreshUser(ctx context.Context, login string) (*model.ContributionStats, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, apperror.ValidationFailed("login", "login is required")
	}

	token := s.fallbackToken
	user, err := s.users.GetUserByLogin(ctx, login)
	switch {
	case err == nil && user.GitHubToken != "":
		token = user.GitHubToken
	case err != nil && !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/leaderboard: looking up %s: %w", login, err)
	}

	return s.refresh(ctx, token, login)
}

// refresh runs the aggregation pipeline for one login and persists the result.
func (s *LeaderboardService) refresh(ctx context.Context, token, login string) (*model.ContributionStats, error) {
	stats := s.gh.Contributions(ctx, token, login)
	stats.Commits = s.gh.OrgCommits(ctx, token, login)
	stats.Points, stats.Level = scoring.Score(stats)
	stats.RefreshedAt = time.Now()

	if err := s.stats.UpsertStats(ctx, &stats); err != nil {
		return nil, fmt.Errorf("service/leaderboard: persisting stats for %s: %w", login, err)
	}

	s.logger.Info("stats refreshed",
		slog.String("login", login),
		slog.Int("points", stats.Points),
		slog.String("level", string(stats.Level)),
	)

	return &stats, nil
}

// Leaderboard returns the reconciled, ordered leaderboard view.
//
// When the global visibility flag is off, only admins get the view; everyone
// else receives ErrForbidden (the data stays intact — hiding is reversible).
func (s *LeaderboardService) Leaderboard(ctx context.Context, isAdmin bool) ([]model.LeaderboardEntry, error) {
	visible, err := s.settings.LeaderboardVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: reading visibility: %w", err)
	}
	if !visible && !isAdmin {
		return nil, apperror.Forbidden("leaderboard is currently hidden")
	}

	statsList, err := s.stats.ListStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: listing stats: %w", err)
	}

	overrides, err := s.overrides.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: listing overrides: %w", err)
	}
	overrideByLogin := make(map[string]model.RankOverride, len(overrides))
	for _, o := range overrides {
		overrideByLogin[o.Login] = o
	}

	entries := make([]model.LeaderboardEntry, 0, len(statsList))
	for _, st := range statsList {
		entry := model.LeaderboardEntry{
			Login:   st.Login,
			Points:  st.Points,
			Level:   st.Level,
			Commits: st.Commits,
			Hidden:  st.Hidden,
		}
		if o, ok := overrideByLogin[st.Login]; ok {
			rank := o.ManualRank
			entry.ManualRank = &rank
		}
		entries = append(entries, entry)
	}

	return scoring.BuildLeaderboard(entries), nil
}

// Stats returns one member's raw stats row (their personal dashboard card).
func (s *LeaderboardService) Stats(ctx context.Context, login string) (*model.ContributionStats, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, apperror.ValidationFailed("login", "login is required")
	}
	return s.stats.GetStats(ctx, login)
}

// SetManualRank places an admin override for a login. The member's current
// points are snapshotted onto the override for the admin dashboard; the live
// score is unaffected.
func (s *LeaderboardService) SetManualRank(ctx context.Context, login string, rank int) (*model.RankOverride, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, apperror.ValidationFailed("login", "login is required")
	}
	if rank < 1 {
		return nil, apperror.ValidationFailed("manualRank", "manual rank must be 1 or greater")
	}

	override := &model.RankOverride{
		Login:      login,
		ManualRank: rank,
		UpdatedAt:  time.Now(),
	}
	if st, err := s.stats.GetStats(ctx, login); err == nil {
		points := st.Points
		override.Points = &points
	}

	if err := s.overrides.SetOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("service/leaderboard: setting manual rank for %s: %w", login, err)
	}

	s.logger.Info("manual rank set",
		slog.String("login", login),
		slog.Int("rank", rank),
	)
	return override, nil
}

// ClearManualRank removes an admin override.
func (s *LeaderboardService) ClearManualRank(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return apperror.ValidationFailed("login", "login is required")
	}

	if err := s.overrides.DeleteOverride(ctx, login); err != nil {
		return err
	}

	s.logger.Info("manual rank cleared", slog.String("login", login))
	return nil
}

// SetHidden hides or unhides one member on the leaderboard.
func (s *LeaderboardService) SetHidden(ctx context.Context, login string, hidden bool) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return apperror.ValidationFailed("login", "login is required")
	}

	if err := s.stats.SetHidden(ctx, login, hidden); err != nil {
		return err
	}

	s.logger.Info("member visibility changed",
		slog.String("login", login),
		slog.Bool("hidden", hidden),
	)
	return nil
}

// Visibility reads the global leaderboard visibility flag.
func (s *LeaderboardService) Visibility(ctx context.Context) (bool, error) {
	return s.settings.LeaderboardVisible(ctx)
}

// SetVisibility writes the global leaderboard visibility flag.
func (s *LeaderboardService) SetVisibility(ctx context.Context, visible bool) error {
	if err := s.settings.SetLeaderboardVisible(ctx, visible); err != nil {
		return err
	}
	s.logger.Info("leaderboard visibility changed", slog.Bool("visible", visible))
	return nil
}
