package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/club-leaderboard/internal/auth"
	"github.com/sakif/club-leaderboard/internal/handler"
	"github.com/sakif/club-leaderboard/internal/model"
)

// leaderboardRouter mounts the public leaderboard routes with the same
// middleware the server uses.
func leaderboardRouter(t *testing.T, h *handler.LeaderboardHandler) (http.Handler, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	r := chi.NewRouter()
	r.With(auth.OptionalAuth(tokens)).Get("/api/leaderboard", h.HandleLeaderboard)
	r.Get("/api/users/{login}/stats", h.HandleUserStats)
	r.With(auth.RequireAuth(tokens)).Post("/api/refresh", h.HandleRefresh)
	return r, tokens
}

func TestLeaderboardHandler_HandleLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	router, tokens := leaderboardRouter(t, handler.NewLeaderboardHandler(env.leaderboard, testHandlerLogger()))

	seedMemberStats(t, env, "alice", 120)
	seedMemberStats(t, env, "bob", 80)

	t.Run("anonymous view", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var entries []model.LeaderboardEntry
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
		if assert.Len(t, entries, 2) {
			assert.Equal(t, "alice", entries[0].Login)
			assert.Equal(t, 1, entries[0].Rank)
			assert.Equal(t, "bob", entries[1].Login)
			assert.Equal(t, 2, entries[1].Rank)
		}
	})

	t.Run("hidden board blocks anonymous", func(t *testing.T) {
		assert.NoError(t, env.db.SetLeaderboardVisible(context.Background(), false))
		defer func() {
			assert.NoError(t, env.db.SetLeaderboardVisible(context.Background(), true))
		}()

		req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("hidden board still visible to admins", func(t *testing.T) {
		assert.NoError(t, env.db.SetLeaderboardVisible(context.Background(), false))
		defer func() {
			assert.NoError(t, env.db.SetLeaderboardVisible(context.Background(), true))
		}()

		token, err := tokens.Generate("admin-id", model.RoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestLeaderboardHandler_HandleUserStats(t *testing.T) {
	env := newTestEnv(t)
	router, _ := leaderboardRouter(t, handler.NewLeaderboardHandler(env.leaderboard, testHandlerLogger()))

	seedMemberStats(t, env, "alice", 120)

	t.Run("existing member", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/alice/stats", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var stats model.ContributionStats
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
		assert.Equal(t, "alice", stats.Login)
		assert.Equal(t, 120, stats.Points)
	})

	t.Run("unknown member", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/nobody/stats", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLeaderboardHandler_HandleRefresh(t *testing.T) {
	env := newTestEnv(t)
	router, tokens := leaderboardRouter(t, handler.NewLeaderboardHandler(env.leaderboard, testHandlerLogger()))

	t.Run("requires authentication", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("refreshes the caller's stats", func(t *testing.T) {
		user := &model.User{GitHubID: 9, Login: "viewer", GitHubToken: "gho_viewer"}
		assert.NoError(t, env.db.Upsert(context.Background(), user))

		// stub Viewer resolves every token to "viewer"
		env.source.stats["viewer"] = model.ContributionStats{TotalPRs: 1, MergedPRs: 1, OrgPRs: 1, OrgMergedPRs: 1}
		env.source.commits["viewer"] = 5

		token, err := tokens.Generate(user.ID, model.RoleMember)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var stats model.ContributionStats
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
		// 1*10 + 1*15 = 25
		assert.Equal(t, 25, stats.Points)
		assert.Equal(t, 5, stats.Commits)
	})
}
