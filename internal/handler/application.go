package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/service"
)

// ApplicationHandler receives recruitment form submissions. Review endpoints
// live on AdminHandler — this one is the public side only.
type ApplicationHandler struct {
	svc    *service.ApplicationService
	logger *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(svc *service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		svc:    svc,
		logger: logger,
	}
}

// submitApplicationRequest is the JSON body for a form submission.
type submitApplicationRequest struct {
	Track        model.ApplicationTrack `json:"track"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Experience   string                 `json:"experience"`
	Interests    string                 `json:"interests"`
	WhyJoin      string                 `json:"whyJoin"`
	GitHub       string                 `json:"github"`
	Portfolio    string                 `json:"portfolio"`
	Availability string                 `json:"availability"`
}

// HandleSubmit accepts a new application.
//
// HTTP: POST /api/applications
// Auth: None — applicants are not members yet.
func (h *ApplicationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	app := &model.Application{
		Track:        req.Track,
		Name:         req.Name,
		Email:        req.Email,
		Experience:   req.Experience,
		Interests:    req.Interests,
		WhyJoin:      req.WhyJoin,
		GitHub:       req.GitHub,
		Portfolio:    req.Portfolio,
		Availability: req.Availability,
	}

	created, err := h.svc.Submit(r.Context(), app)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
