package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ServerConfig - параметры HTTP-сервера.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
}

// Handlers - все обработчики, которые монтирует сервер.
type Handlers struct {
	Agreements    *AgreementHandler
	Auth          *AuthHandler
	Notifications *NotificationHandler
}

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает chi-роутер со всеми маршрутами /api/v1.
func NewRouter(cfg ServerConfig, h Handlers, auth *AuthMiddleware, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Trace-ID"},
		ExposedHeaders:   []string{"Link", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные роуты
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.SetHeader("Content-Type", "application/json"))
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/agreements", func(r chi.Router) {
			r.Use(middleware.SetHeader("Content-Type", "application/json"))
			r.Use(auth.Authenticate)

			r.Get("/", h.Agreements.ListAgreements)
			r.With(RequireRole(domain.RoleTenant)).Post("/", h.Agreements.CreateAgreement)
			r.Get("/search", h.Agreements.SearchAgreements)
			r.Post("/filter", h.Agreements.FilterAgreements)
			r.Get("/total", h.Agreements.GetTotals)
			r.Get("/latest", h.Agreements.GetLatestAgreements)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Agreements.GetAgreement)
				r.Put("/", h.Agreements.UpdateAgreement)
				r.Delete("/", h.Agreements.DeleteAgreement)
				r.Put("/accept", h.Agreements.AcceptAgreement)
				r.Put("/decline", h.Agreements.DeclineAgreement)
				r.Post("/counter", h.Agreements.CounterAgreement)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			// SSE-поток отдает text/event-stream, поэтому без SetHeader
			r.With(auth.AuthenticateStream).Get("/stream", h.Notifications.Stream)

			r.Group(func(r chi.Router) {
				r.Use(middleware.SetHeader("Content-Type", "application/json"))
				r.Use(auth.Authenticate)
				r.Get("/", h.Notifications.GetNotifications)
				r.Get("/latest", h.Notifications.GetLatestNotifications)
				r.Put("/read", h.Notifications.MarkRead)
			})
		})
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, h Handlers, auth *AuthMiddleware, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, h, auth, baseLogger),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
