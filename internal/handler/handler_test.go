package handler_test

// Shared wiring for handler tests: real services over an in-memory SQLite
// database, with a canned GitHub source so nothing touches the network.

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/club-leaderboard/internal/github"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository/sqlite"
	"github.com/sakif/club-leaderboard/internal/service"
)

type stubSource struct {
	stats   map[string]model.ContributionStats
	commits map[string]int
}

func (s *stubSource) Viewer(ctx context.Context, token string) (*github.Viewer, error) {
	return &github.Viewer{ID: 1, Login: "viewer"}, nil
}

func (s *stubSource) Contributions(ctx context.Context, token, login string) model.ContributionStats {
	st := s.stats[login]
	st.Login = login
	return st
}

func (s *stubSource) OrgCommits(ctx context.Context, token, login string) int {
	return s.commits[login]
}

type testEnv struct {
	db           *sqlite.DB
	leaderboard  *service.LeaderboardService
	applications *service.ApplicationService
	source       *stubSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	src := &stubSource{
		stats:   make(map[string]model.ContributionStats),
		commits: make(map[string]int),
	}

	return &testEnv{
		db:           db,
		leaderboard:  service.NewLeaderboardService(db, db, db, db, src, "test-token", logger),
		applications: service.NewApplicationService(db, logger),
		source:       src,
	}
}

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
