package main

import (
	"context"
	"net/url"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/handlers"
	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/store/backend"
	"github.com/Abhishek40905/ancome-backend/internal/utils"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	store        store.Store
	authService  *services.AuthService
	auditService *services.AuditService

	authHandler    *handlers.AuthHandler
	projectHandler *handlers.ProjectHandler
	adminHandler   *handlers.AdminHandler
	eventHandler   *handlers.EventHandler
	healthHandler  *handlers.HealthHandler

	authLimiter *middleware.RateLimiter
}

// bootstrap initializes all application dependencies.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	st, err := backend.Open(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", cfg.Database.Driver, err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Store ready")

	callbackURL, err := url.JoinPath(cfg.App.APIURL, "/api/auth/callback")
	if err != nil {
		logger.Fatalf("Invalid api_url %q: %v", cfg.App.APIURL, err)
	}
	github := services.NewGitHubOAuth(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, callbackURL)
	if !github.IsConfigured() {
		logger.Warn().Msg("GitHub OAuth is not configured, login will fail")
	}
	stateCodec := services.NewStateCodec([]byte(cfg.Cookie.HashKey), []byte(cfg.Cookie.BlockKey))

	authService := services.NewAuthService(st, github, stateCodec, &cfg.JWT)
	projectService := services.NewProjectService(st)
	eventService := services.NewEventService(st, st)
	auditService := services.NewAuditService(st)

	return &appServices{
		store:          st,
		authService:    authService,
		auditService:   auditService,
		authHandler:    handlers.NewAuthHandler(authService, projectService, cfg),
		projectHandler: handlers.NewProjectHandler(projectService),
		adminHandler:   handlers.NewAdminHandler(projectService, authService, auditService),
		eventHandler:   handlers.NewEventHandler(eventService),
		healthHandler:  handlers.NewHealthHandler(st),
		authLimiter:    middleware.NewRateLimiter(5, 20),
	}
}

// shutdown stops background work and releases the store connection.
func (s *appServices) shutdown(ctx context.Context) {
	s.authLimiter.Stop()
	if err := s.store.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to close store")
		return
	}
	logger.Info().Msg("Store closed")
}
