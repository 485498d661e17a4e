package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/club-leaderboard/internal/handler"
	"github.com/sakif/club-leaderboard/internal/model"
)

// adminRouter mounts the AdminHandler the way the server does, so URL
// parameters resolve through chi.
func adminRouter(h *handler.AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Put("/api/admin/ranks/{login}", h.HandleSetRank)
	r.Delete("/api/admin/ranks/{login}", h.HandleClearRank)
	r.Put("/api/admin/users/{login}/hidden", h.HandleSetHidden)
	r.Get("/api/admin/settings/visibility", h.HandleGetVisibility)
	r.Put("/api/admin/settings/visibility", h.HandleSetVisibility)
	r.Post("/api/admin/refresh/{login}", h.HandleRefreshUser)
	r.Get("/api/admin/applications", h.HandleListApplications)
	r.Get("/api/admin/applications/{id}", h.HandleGetApplication)
	r.Patch("/api/admin/applications/{id}", h.HandleUpdateApplication)
	return r
}

func seedMemberStats(t *testing.T, env *testEnv, login string, points int) {
	t.Helper()
	err := env.db.UpsertStats(context.Background(), &model.ContributionStats{
		Login:       login,
		Points:      points,
		Level:       model.LevelNewcomer,
		RefreshedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seeding stats for %s: %v", login, err)
	}
}

func TestAdminHandler_RankOverrides(t *testing.T) {
	env := newTestEnv(t)
	router := adminRouter(handler.NewAdminHandler(env.leaderboard, env.applications, testHandlerLogger()))

	seedMemberStats(t, env, "alice", 42)

	t.Run("set rank", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/ranks/alice",
			bytes.NewBufferString(`{"manualRank": 2}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var override model.RankOverride
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&override))
		assert.Equal(t, 2, override.ManualRank)
		if assert.NotNil(t, override.Points) {
			assert.Equal(t, 42, *override.Points)
		}
	})

	t.Run("rank below one is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/ranks/alice",
			bytes.NewBufferString(`{"manualRank": 0}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("clear rank", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/ranks/alice", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("clear rank twice is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/ranks/alice", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAdminHandler_Visibility(t *testing.T) {
	env := newTestEnv(t)
	router := adminRouter(handler.NewAdminHandler(env.leaderboard, env.applications, testHandlerLogger()))

	t.Run("defaults to visible", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/settings/visibility", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var settings model.Settings
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&settings))
		assert.True(t, settings.LeaderboardVisible)
	})

	t.Run("flip off and back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/settings/visibility",
			bytes.NewBufferString(`{"leaderboardVisible": false}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/admin/settings/visibility", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var settings model.Settings
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&settings))
		assert.False(t, settings.LeaderboardVisible)
	})
}

func TestAdminHandler_SetHidden(t *testing.T) {
	env := newTestEnv(t)
	router := adminRouter(handler.NewAdminHandler(env.leaderboard, env.applications, testHandlerLogger()))

	seedMemberStats(t, env, "lurker", 10)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/lurker/hidden",
		bytes.NewBufferString(`{"hidden": true}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	stats, err := env.db.GetStats(context.Background(), "lurker")
	assert.NoError(t, err)
	assert.True(t, stats.Hidden)
}

func TestAdminHandler_RefreshUser(t *testing.T) {
	env := newTestEnv(t)
	router := adminRouter(handler.NewAdminHandler(env.leaderboard, env.applications, testHandlerLogger()))

	// org: 2 PRs (1 merged), nothing outside the org, 10 commits
	env.source.stats["ghost"] = model.ContributionStats{TotalPRs: 2, MergedPRs: 1, OrgPRs: 2, OrgMergedPRs: 1}
	env.source.commits["ghost"] = 10

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh/ghost", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats model.ContributionStats
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	// 2*10 + 1*15 = 35
	assert.Equal(t, 35, stats.Points)
	assert.Equal(t, 10, stats.Commits)
	assert.Equal(t, model.LevelBeginner, stats.Level)
}

func TestAdminHandler_ApplicationReview(t *testing.T) {
	env := newTestEnv(t)
	router := adminRouter(handler.NewAdminHandler(env.leaderboard, env.applications, testHandlerLogger()))

	created, err := env.applications.Submit(context.Background(), &model.Application{
		Track:   model.TrackFresher,
		Name:    "Alice Rahman",
		Email:   "alice@example.com",
		WhyJoin: "I want to learn Go.",
	})
	assert.NoError(t, err)

	t.Run("list pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/applications?status=pending", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var apps []model.Application
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&apps))
		assert.Len(t, apps, 1)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/applications?status=maybe", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("accept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/applications/"+created.ID,
			bytes.NewBufferString(`{"status": "accepted"}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var app model.Application
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&app))
		assert.Equal(t, model.StatusAccepted, app.Status)
	})

	t.Run("get missing application", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/applications/nonexistent", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
