package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/club-leaderboard/internal/apperror"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository"
)

// Validation constants for application submissions.
const (
	MaxNameLength       = 100
	MaxEmailLength      = 254
	MaxFreeTextLength   = 5000 // experience, interests, whyJoin
	MaxShortFieldLength = 500  // github, portfolio, availability
)

// ApplicationService handles recruitment form submissions and their review
// lifecycle.
type ApplicationService struct {
	repo   repository.ApplicationRepository
	logger *slog.Logger
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(repo repository.ApplicationRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:   repo,
		logger: logger,
	}
}

// Submit validates and stores a new application.
//
// Validation is field-by-field, and the first failure is what the user sees —
// the forms surface one message at a time. Required everywhere: name, email,
// whyJoin. The creative track additionally requires a portfolio link, since
// that's what the reviewers judge.
func (s *ApplicationService) Submit(ctx context.Context, app *model.Application) (*model.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("service/application: application must not be nil")
	}

	if app.Track == "" {
		app.Track = model.TrackFresher
	}
	if app.Track != model.TrackFresher && app.Track != model.TrackCreative {
		return nil, apperror.ValidationFailed("track",
			fmt.Sprintf("track must be %q or %q", model.TrackFresher, model.TrackCreative))
	}

	app.Name = strings.TrimSpace(app.Name)
	app.Email = strings.TrimSpace(app.Email)
	app.WhyJoin = strings.TrimSpace(app.WhyJoin)
	app.Experience = strings.TrimSpace(app.Experience)
	app.Interests = strings.TrimSpace(app.Interests)
	app.GitHub = strings.TrimSpace(app.GitHub)
	app.Portfolio = strings.TrimSpace(app.Portfolio)
	app.Availability = strings.TrimSpace(app.Availability)

	if app.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(app.Name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if app.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(app.Email) > MaxEmailLength || !strings.Contains(app.Email, "@") {
		return nil, apperror.ValidationFailed("email", "invalid email address")
	}
	if app.WhyJoin == "" {
		return nil, apperror.ValidationFailed("whyJoin", "tell us why you want to join")
	}
	if app.Track == model.TrackCreative && app.Portfolio == "" {
		return nil, apperror.ValidationFailed("portfolio", "portfolio link is required for the creative track")
	}

	for field, value := range map[string]string{
		"experience": app.Experience,
		"interests":  app.Interests,
		"whyJoin":    app.WhyJoin,
	} {
		if len(value) > MaxFreeTextLength {
			return nil, apperror.ValidationFailed(field,
				fmt.Sprintf("%s must be %d characters or less", field, MaxFreeTextLength))
		}
	}
	for field, value := range map[string]string{
		"github":       app.GitHub,
		"portfolio":    app.Portfolio,
		"availability": app.Availability,
	} {
		if len(value) > MaxShortFieldLength {
			return nil, apperror.ValidationFailed(field,
				fmt.Sprintf("%s must be %d characters or less", field, MaxShortFieldLength))
		}
	}

	// The repository assigns ID, pending status, and the timestamp.
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		s.logger.Error("failed to store application",
			slog.String("track", string(app.Track)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/application: storing application: %w", err)
	}

	s.logger.Info("application submitted",
		slog.String("id", app.ID),
		slog.String("track", string(app.Track)),
	)

	return app, nil
}

// List returns applications filtered by track and/or status (empty = all).
func (s *ApplicationService) List(ctx context.Context, track model.ApplicationTrack, status model.ApplicationStatus) ([]model.Application, error) {
	if track != "" && track != model.TrackFresher && track != model.TrackCreative {
		return nil, apperror.ValidationFailed("track", "unknown track filter")
	}
	if status != "" && !model.ValidStatus(status) {
		return nil, apperror.ValidationFailed("status", "unknown status filter")
	}

	apps, err := s.repo.ListApplications(ctx, track, status)
	if err != nil {
		return nil, fmt.Errorf("service/application: listing applications: %w", err)
	}
	return apps, nil
}

// Get returns one application by ID.
func (s *ApplicationService) Get(ctx context.Context, id string) (*model.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "application ID is required")
	}
	return s.repo.GetApplicationByID(ctx, id)
}

// UpdateStatus moves an application through the review lifecycle.
// Applications are never deleted — rejection is a status, not a removal.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "application ID is required")
	}
	if !model.ValidStatus(status) {
		return nil, apperror.ValidationFailed("status",
			"status must be one of: pending, reviewed, accepted, rejected")
	}

	if err := s.repo.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("application status updated",
		slog.String("id", id),
		slog.String("status", string(status)),
	)

	return s.repo.GetApplicationByID(ctx, id)
}
