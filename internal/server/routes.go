package server

import (
	"github.com/nulzo/metasearch/internal/server/middleware"
	v1 "github.com/nulzo/metasearch/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing(s.config.Tracing.ServiceName))
	}

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	staticHandler := v1.NewStaticHandler(s.config.Server.StaticDir)
	s.router.GET("/", staticHandler.Index)
	if s.config.Server.StaticDir != "" {
		s.router.Static("/static", s.config.Server.StaticDir)
	}

	providersHandler := v1.NewProvidersHandler(s.service)
	s.router.GET("/providers", providersHandler.List)

	configHandler := v1.NewConfigHandler(s.config)
	s.router.GET("/config", configHandler.Get)

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)
	askHandler := v1.NewAskHandler(s.service, s.logger, s.config.Server.MaxUploadBytes())
	s.router.POST("/ask", limiter.Middleware(), askHandler.Ask)
}
