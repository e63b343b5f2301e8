package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/config"
	"github.com/cortexai/igs/internal/handler"
	"github.com/cortexai/igs/internal/middleware"
	"github.com/cortexai/igs/internal/security"
)

func (s *Server) setupRoutes() http.Handler {
	cfg := s.cfg

	authEnabled := cfg.EnableAuth && len(cfg.APIKeys) > 0
	log.Info().
		Bool("auth_enabled", authEnabled).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Int("max_query_length", cfg.MaxQueryLength).
		Str("api_prefix", cfg.APIPrefix).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("auth enabled but no API keys configured, API routes are open")
	}

	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	// ─── Handlers ────────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(s.dispatcher)
	queryH := handler.NewQueryHandler(s.dispatcher, auditLogger, cfg.MaxQueryLength, cfg.APIKeyHeader)
	toolsH := handler.NewToolsHandler(s.dispatcher)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins, cfg.APIKeyHeader, config.DefaultCORSMaxAge)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)
	if s.metrics != nil {
		r.Method(http.MethodGet, cfg.MetricsPath, s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.APIKeyHeader))
		if authEnabled {
			r.Use(middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/query", queryH.Query)
			r.Get("/tools", toolsH.ListTools)
		})
	})

	return r
}
