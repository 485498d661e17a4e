// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and domain models, never *http.Request, and
// return domain errors (apperror), never HTTP status codes. Handlers do the
// translation in both directions.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/club-leaderboard/internal/apperror"
	"github.com/sakif/club-leaderboard/internal/auth"
	"github.com/sakif/club-leaderboard/internal/model"
	"github.com/sakif/club-leaderboard/internal/repository"
)

// BootstrapAdminID is the synthetic user ID issued by the password-based
// admin login. It never appears in the users table — GetUserByID special-cases
// it so /api/me still works for a bootstrap admin session.
const BootstrapAdminID = "admin"

// AuthService handles the authentication business logic: the GitHub OAuth
// callback, role assignment, and the bootstrap admin password login.
type AuthService struct {
	users             repository.UserRepository
	tokens            *auth.TokenService
	passwords         *auth.PasswordService
	adminLogins       map[string]bool
	adminPasswordHash string
	logger            *slog.Logger
}

// NewAuthService creates an AuthService.
//
// adminLogins is the set of GitHub usernames that receive the admin role on
// login (from the ADMIN_LOGINS env var). adminPasswordHash is the bcrypt hash
// backing the password login; empty disables that route.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	adminLogins []string,
	adminPasswordHash string,
	logger *slog.Logger,
) *AuthService {
	admins := make(map[string]bool, len(adminLogins))
	for _, login := range adminLogins {
		if login != "" {
			admins[login] = true
		}
	}
	return &AuthService{
		users:             users,
		tokens:            tokens,
		passwords:         passwords,
		adminLogins:       admins,
		adminPasswordHash: adminPasswordHash,
		logger:            logger,
	}
}

// AuthResult is returned by authentication operations. It bundles the user
// record and the issued JWT so the handler can set the cookie and respond in
// one step. User is nil for the bootstrap admin login.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback.
//
// After the handler exchanges the GitHub code for a profile and access token,
// this method:
//
//  1. Decides the role (admin if the login is in ADMIN_LOGINS)
//  2. Upserts the user (first login → INSERT; later logins refresh the
//     profile, role, and stored access token)
//  3. Issues a JWT carrying the user's internal ID and role
//
// The access token is persisted on the user row because the refresh pipeline
// needs it later, outside any OAuth flow.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser, accessToken string) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	role := model.RoleMember
	if s.adminLogins[ghUser.Login] {
		role = model.RoleAdmin
	}

	user := &model.User{
		GitHubID:    ghUser.ID,
		Login:       ghUser.Login,
		Email:       ghUser.Email,
		AvatarURL:   ghUser.AvatarURL,
		Role:        role,
		GitHubToken: accessToken,
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
		slog.String("role", string(user.Role)),
	)

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// AdminLogin verifies the bootstrap admin password and issues an admin JWT.
//
// Returns apperror.ErrUnauthorized for a wrong password, and ErrForbidden
// when the route is disabled (no ADMIN_PASSWORD_HASH configured). The wrong
// password case is logged — repeated failures are worth noticing.
func (s *AuthService) AdminLogin(ctx context.Context, password string) (*AuthResult, error) {
	if s.adminPasswordHash == "" {
		return nil, apperror.Forbidden("admin password login is not configured")
	}

	if err := s.passwords.Verify(s.adminPasswordHash, password); err != nil {
		s.logger.Warn("admin password login failed")
		return nil, apperror.Unauthorized("invalid admin credentials")
	}

	token, err := s.tokens.Generate(BootstrapAdminID, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating bootstrap admin token: %w", err)
	}

	s.logger.Info("bootstrap admin logged in")
	return &AuthResult{Token: token}, nil
}

// GetUserByID returns the user for the given internal ID.
//
// The bootstrap admin has no database row; it gets a synthetic record so the
// /api/me handler behaves uniformly.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	if id == BootstrapAdminID {
		return &model.User{ID: BootstrapAdminID, Login: "admin", Role: model.RoleAdmin}, nil
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
