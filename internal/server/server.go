// Package server is the composition root: it wires the database, services,
// handlers, and middleware together and owns the HTTP lifecycle. main.go
// stays minimal — read config, build a Server, Start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/club-leaderboard/internal/auth"
	"github.com/sakif/club-leaderboard/internal/github"
	"github.com/sakif/club-leaderboard/internal/handler"
	"github.com/sakif/club-leaderboard/internal/middleware"
	sqliteRepo "github.com/sakif/club-leaderboard/internal/repository/sqlite"
	"github.com/sakif/club-leaderboard/internal/service"
)

// Config holds server configuration, loaded from the environment in main.go.
type Config struct {
	Port   int
	DBPath string

	// Session signing secret. Required.
	JWTSecret string

	// GitHub OAuth app credentials.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	// GitHubOrg is the organization whose contributions score extra.
	GitHubOrg string

	// GitHubToken is the server-level fallback token for refreshing members
	// who have never logged in here.
	GitHubToken string

	// AdminLogins are GitHub logins granted the admin role at sign-in.
	AdminLogins []string

	// AdminPasswordHash enables the bootstrap password login when set.
	AdminPasswordHash string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer only receives what it needs — services get repository
// interfaces, handlers get services, nothing below the handler sees HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds services and handlers, and maps
// every route.
//
// Middleware order matters: RequestID → RealIP → Recoverer → Logger, so the
// logger sees the real client IP and panics become 500s before they reach it.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	provider := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)
	ghClient := github.NewClient(github.DefaultConfig(s.config.GitHubOrg), s.logger)

	authService := service.NewAuthService(
		s.db, tokens, passwords,
		s.config.AdminLogins, s.config.AdminPasswordHash,
		s.logger,
	)
	leaderboardService := service.NewLeaderboardService(
		s.db, s.db, s.db, s.db,
		ghClient, s.config.GitHubToken,
		s.logger,
	)
	applicationService := service.NewApplicationService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(provider, authService, s.logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, s.logger)
	applicationHandler := handler.NewApplicationHandler(applicationService, s.logger)
	adminHandler := handler.NewAdminHandler(leaderboardService, applicationService, s.logger)

	// OAuth flow + session management
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
		r.Post("/admin/login", authHandler.HandleAdminLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/applications", applicationHandler.HandleSubmit)
		r.Get("/users/{login}/stats", leaderboardHandler.HandleUserStats)
		r.With(auth.OptionalAuth(tokens)).Get("/leaderboard", leaderboardHandler.HandleLeaderboard)

		// Authenticated members
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/refresh", leaderboardHandler.HandleRefresh)
		})

		// Admin dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))

			r.Put("/ranks/{login}", adminHandler.HandleSetRank)
			r.Delete("/ranks/{login}", adminHandler.HandleClearRank)
			r.Put("/users/{login}/hidden", adminHandler.HandleSetHidden)
			r.Get("/settings/visibility", adminHandler.HandleGetVisibility)
			r.Put("/settings/visibility", adminHandler.HandleSetVisibility)
			r.Post("/refresh/{login}", adminHandler.HandleRefreshUser)

			r.Get("/applications", adminHandler.HandleListApplications)
			r.Get("/applications/{id}", adminHandler.HandleGetApplication)
			r.Patch("/applications/{id}", adminHandler.HandleUpdateApplication)
		})
	})

	return nil
}

// Start runs the HTTP server and blocks until SIGINT/SIGTERM or a server
// error. Graceful shutdown: stop accepting connections, give in-flight
// requests 30 seconds, then close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("org", s.config.GitHubOrg),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
