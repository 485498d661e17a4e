package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/service"
)

// AdminHandler groups everything behind RequireAdmin: rank overrides, member
// visibility, the global leaderboard switch, forced refreshes, and the
// application review queue.
type AdminHandler struct {
	leaderboard  *service.LeaderboardService
	applications *service.ApplicationService
	logger       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	leaderboard *service.LeaderboardService,
	applications *service.ApplicationService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		leaderboard:  leaderboard,
		applications: applications,
		logger:       logger,
	}
}

// --- Rank overrides ---

// HandleSetRank pins a member to a manual leaderboard position.
//
// HTTP: PUT /api/admin/ranks/{login}
// Body: {"manualRank": 3}
func (h *AdminHandler) HandleSetRank(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var req struct {
		ManualRank int `json:"manualRank"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	override, err := h.leaderboard.SetManualRank(r.Context(), login, req.ManualRank)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, override)
}

// HandleClearRank removes a manual leaderboard position.
//
// HTTP: DELETE /api/admin/ranks/{login}
func (h *AdminHandler) HandleClearRank(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	if err := h.leaderboard.ClearManualRank(r.Context(), login); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "manual rank cleared"})
}

// --- Member visibility ---

// HandleSetHidden hides or unhides one member on the leaderboard.
//
// HTTP: PUT /api/admin/users/{login}/hidden
// Body: {"hidden": true}
func (h *AdminHandler) HandleSetHidden(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := h.leaderboard.SetHidden(r.Context(), login, req.Hidden); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"login":  login,
		"hidden": req.Hidden,
	})
}

// --- Global visibility switch ---

// HandleGetVisibility reads the global leaderboard switch.
//
// HTTP: GET /api/admin/settings/visibility
func (h *AdminHandler) HandleGetVisibility(w http.ResponseWriter, r *http.Request) {
	visible, err := h.leaderboard.Visibility(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Settings{LeaderboardVisible: visible})
}

// HandleSetVisibility flips the global leaderboard switch. Hiding is
// reversible — the underlying data is untouched.
//
// HTTP: PUT /api/admin/settings/visibility
// Body: {"leaderboardVisible": false}
func (h *AdminHandler) HandleSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := h.leaderboard.SetVisibility(r.Context(), req.LeaderboardVisible); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// --- Forced refresh ---

// HandleRefreshUser re-aggregates stats for any member, logged in or not.
//
// HTTP: POST /api/admin/refresh/{login}
func (h *AdminHandler) HandleRefreshUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	stats, err := h.leaderboard.RefreshUser(r.Context(), login)
	if err != nil {
		h.logger.Error("admin refresh failed",
			slog.String("login", login),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// --- Application review queue ---

// HandleListApplications lists applications, optionally filtered.
//
// HTTP: GET /api/admin/applications?track=fresher&status=pending
func (h *AdminHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	track := model.ApplicationTrack(r.URL.Query().Get("track"))
	status := model.ApplicationStatus(r.URL.Query().Get("status"))

	apps, err := h.applications.List(r.Context(), track, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleGetApplication returns one application.
//
// HTTP: GET /api/admin/applications/{id}
func (h *AdminHandler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	app, err := h.applications.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// HandleUpdateApplication moves an application through the review lifecycle.
//
// HTTP: PATCH /api/admin/applications/{id}
// Body: {"status": "accepted"}
func (h *AdminHandler) HandleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status model.ApplicationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	app, err := h.applications.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}
