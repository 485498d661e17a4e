package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/club-leaderboard/internal/auth"
	"github.com/sakif/club-leaderboard/internal/service"
)

// LeaderboardHandler serves the public leaderboard view, per-member stats,
// and the self-service refresh.
type LeaderboardHandler struct {
	svc    *service.LeaderboardService
	logger *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(svc *service.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		svc:    svc,
		logger: logger,
	}
}

// HandleLeaderboard returns the ordered leaderboard.
//
// HTTP: GET /api/leaderboard
// Auth: Optional — admins can see the board even while it's globally hidden.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	entries, err := h.svc.Leaderboard(r.Context(), identity.IsAdmin())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleUserStats returns one member's raw contribution stats.
//
// HTTP: GET /api/users/{login}/stats
func (h *LeaderboardHandler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	stats, err := h.svc.Stats(r.Context(), login)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleRefresh re-aggregates the calling member's own GitHub stats.
//
// HTTP: POST /api/refresh
// Auth: Required
//
// Refresh hits several GitHub endpoints, so members trigger it explicitly
// rather than on every page load.
func (h *LeaderboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	stats, err := h.svc.RefreshSelf(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("self refresh failed",
			slog.String("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
