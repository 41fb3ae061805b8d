// Package server provides the HTTP server for the toolkit user-state API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// Initialization follows a fixed order: storage → auth providers → services →
// handlers → routes. Shutdown reverses it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/handlers"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/middleware"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/service"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils/ratelimit"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler exchanges the access key for tokens
	AuthHandler *handlers.AuthHandler

	ProfileHandler   *handlers.ProfileHandler
	SettingsHandler  *handlers.SettingsHandler
	FavoritesHandler *handlers.FavoritesHandler
	HistoryHandler   *handlers.HistoryHandler

	// TransferHandler manages export and import of the whole state
	TransferHandler *handlers.TransferHandler
}

// AuthProviders contains the authentication dependencies.
// All fields are nil when authentication is disabled.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains the Argon2id parameters used for the access key
	PasswordCfg *auth.PasswordConfig

	// Verifier holds the hashed access key
	Verifier *auth.AccessKeyVerifier
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Repo is the persistence medium for user state
	Repo repository.StateRepository

	// State is the user-state service shared by every handler
	State *service.UserStateService

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router        chi.Router
	authProviders *AuthProviders
	authService   *service.AuthService
	limiter       *ratelimit.Store
	httpServer    *http.Server

	stopWatch         func()
	cancelMaintenance context.CancelFunc
}

// NewServer creates a new server instance with all required components.
// It opens the storage medium named in the configuration.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
	defer cancel()

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	s, err := NewServerWithRepository(cfg, repo)
	if err != nil {
		if closeErr := repo.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close storage")
		}
		return nil, err
	}
	return s, nil
}

// NewServerWithRepository creates a server on top of an already opened medium.
func NewServerWithRepository(cfg *config.AppConfig, repo repository.StateRepository) (*Server, error) {
	s := &Server{
		Config: cfg,
		Repo:   repo,
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	s.setupServices()
	s.setupHandlers()

	if cfg.RateLimit.Enabled {
		s.limiter = ratelimit.NewStore(ratelimit.Rate{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}, constants.RateLimitClientTTL)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupAuthProviders initializes the JWT service and hashes the access key.
// Nothing is created when authentication is disabled.
func (s *Server) setupAuthProviders() error {
	if !s.Config.Auth.Enabled {
		log.Warn().Msg("Authentication is disabled, the API is open to every client")
		return nil
	}

	passwordCfg := auth.ConfigFromAppConfig(s.Config)
	verifier, err := auth.NewAccessKeyVerifier(s.Config.Auth.AccessKey, passwordCfg)
	if err != nil {
		return err
	}

	s.authProviders = &AuthProviders{
		JWTService:  auth.NewJWTService(&s.Config.Auth),
		PasswordCfg: passwordCfg,
		Verifier:    verifier,
	}
	return nil
}

// setupServices initializes the user-state and auth services.
func (s *Server) setupServices() {
	s.State = service.NewUserStateService(s.Repo)

	if s.authProviders != nil {
		s.authService = service.NewAuthService(s.authProviders.JWTService, s.authProviders.Verifier)
	}
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() {
	var tokenService handlers.TokenService
	if s.authService != nil {
		tokenService = s.authService
	}

	s.Handlers = &Handlers{
		AuthHandler:      handlers.NewAuthHandler(tokenService),
		ProfileHandler:   handlers.NewProfileHandler(s.State.Profile()),
		SettingsHandler:  handlers.NewSettingsHandler(s.State.Settings()),
		FavoritesHandler: handlers.NewFavoritesHandler(s.State.Favorites()),
		HistoryHandler:   handlers.NewHistoryHandler(s.State.History()),
		TransferHandler:  handlers.NewTransferHandler(s.State),
	}
}

// authMiddleware returns the middleware guarding the state routes.
func (s *Server) authMiddleware() func(http.Handler) http.Handler {
	if s.authProviders == nil {
		return middleware.Passthrough()
	}
	return middleware.JWTAuth(s.authProviders.JWTService)
}

// StartWatching reloads cached state whenever another process modifies the
// storage file. It is a no-op unless the medium supports watching and
// storage.watch_file is set.
func (s *Server) StartWatching(ctx context.Context) error {
	watcher, ok := s.Repo.(repository.Watcher)
	if !ok || !s.Config.Storage.WatchFile {
		return nil
	}

	stop, err := watcher.Watch(ctx, func() {
		s.State.Invalidate()
		log.Info().Msg("Storage changed on disk, cached state dropped")
	})
	if err != nil {
		return fmt.Errorf("failed to watch storage: %w", err)
	}
	s.stopWatch = stop
	return nil
}

// Start starts the HTTP server and sets up signal handling for graceful shutdown.
// It blocks until the server fails or a shutdown signal is received.
func (s *Server) Start() error {
	if err := s.StartWatching(context.Background()); err != nil {
		return err
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Str("storage", s.Config.Storage.Driver).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopBackground()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("Failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// before releasing the storage medium.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopBackground()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	middleware.LogAndContinueOnError(s.Repo.Close(), "Failed to close storage")
	log.Info().Msg("Storage closed")

	return nil
}

// stopBackground stops the file watcher and maintenance goroutines.
func (s *Server) stopBackground() {
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	if s.cancelMaintenance != nil {
		s.cancelMaintenance()
		s.cancelMaintenance = nil
	}
}

// SetupMaintenanceTasks starts periodic background work:
// dropping idle rate limiters and reporting connection pool statistics for SQL media.
func (s *Server) SetupMaintenanceTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelMaintenance = cancel

	if s.limiter != nil {
		go s.limiter.Run(ctx, constants.RateLimitCleanupInterval)
	}

	sqlRepo, ok := s.Repo.(*repository.SQLStateRepository)
	if !ok {
		return
	}

	go func() {
		ticker := time.NewTicker(constants.DBMaintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlRepo.Pool().Stats()
				log.Info().
					Int("open_connections", stats.OpenConnections).
					Int("in_use", stats.InUse).
					Int("idle", stats.Idle).
					Int64("wait_count", stats.WaitCount).
					Dur("wait_duration", stats.WaitDuration).
					Msg("Database pool statistics")

				checkCtx, checkCancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
				middleware.LogAndContinueOnError(sqlRepo.HealthCheck(checkCtx), "Database health check failed")
				checkCancel()
			}
		}
	}()
}
