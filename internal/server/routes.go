package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/middleware"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Accept, Authorization, Content-Type, X-Request-ID"
	corsMaxAge       = "300"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check, version and route listing endpoints (unprotected)
// - Token exchange (unprotected)
// - Profile, settings, favorites and history endpoints
// - Whole-state export and import
//
// State routes are protected by JWT auth when authentication is enabled.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins, s.Config.CORS.AllowCredentials))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogging())
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	if s.limiter != nil {
		r.Use(middleware.RateLimit(s.limiter))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusNotFound, constants.CodeNotFound, constants.MsgResourceNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
	})

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.handleHealth)

		r.Get(constants.VersionPath, func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})

		r.Get(constants.APIBasePath+"/routes", s.GetAPIRoutes)
	})

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Post("/auth/token", s.Handlers.AuthHandler.IssueToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware())
			r.Use(chimiddleware.NoCache)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", s.Handlers.ProfileHandler.GetProfile)
				r.Patch("/", s.Handlers.ProfileHandler.UpdateProfile)
				r.Put("/fields/{"+constants.ParamField+"}", s.Handlers.ProfileHandler.SetProfileField)
				r.Post("/reset", s.Handlers.ProfileHandler.ResetProfile)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", s.Handlers.SettingsHandler.GetSettings)
				r.Patch("/", s.Handlers.SettingsHandler.UpdateSettings)
				r.Put("/fields/{"+constants.ParamField+"}", s.Handlers.SettingsHandler.SetSetting)
				r.Post("/reset", s.Handlers.SettingsHandler.ResetSettings)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", s.Handlers.FavoritesHandler.ListFavorites)
				r.Delete("/", s.Handlers.FavoritesHandler.ClearFavorites)

				r.Route("/{"+constants.ParamToolID+"}", func(r chi.Router) {
					r.Get("/", s.Handlers.FavoritesHandler.GetFavorite)
					r.Put("/", s.Handlers.FavoritesHandler.AddFavorite)
					r.Delete("/", s.Handlers.FavoritesHandler.RemoveFavorite)
					r.Post("/toggle", s.Handlers.FavoritesHandler.ToggleFavorite)
				})
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/", s.Handlers.HistoryHandler.GetHistory)
				r.Post("/", s.Handlers.HistoryHandler.AppendHistory)
				r.Delete("/", s.Handlers.HistoryHandler.ClearHistory)
			})

			r.Route("/state", func(r chi.Router) {
				r.Get("/export", s.Handlers.TransferHandler.ExportState)
				r.Post("/import", s.Handlers.TransferHandler.ImportState)
			})
		})
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// handleHealth reports liveness, pinging the database for SQL media.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if checker, ok := s.Repo.(repository.HealthChecker); ok {
		if err := checker.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
			return
		}
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"storage": s.Config.Storage.Driver,
		"version": s.Config.App.Version,
	})
}

// GetAPIRoutes lists every registered route grouped by path.
func (s *Server) GetAPIRoutes(w http.ResponseWriter, r *http.Request) {
	routes := make(map[string][]string)

	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = strings.Replace(route, "/*/", "/", -1)
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		routes[route] = append(routes[route], method)
		return nil
	})
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewInternalServerError(err))
		return
	}

	for _, methods := range routes {
		sort.Strings(methods)
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"routes": routes,
		"auth":   s.authProviders != nil,
	})
}

// corsMiddleware creates a CORS middleware for the configured origins.
// A "*" entry allows every origin. Preflight requests from allowed origins
// are answered directly with 204 No Content.
func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(allowedOrigins, origin) {
				// If origin is not allowed, continue without setting CORS headers
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", strconv.FormatBool(true))
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
