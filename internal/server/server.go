// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/umb-labs/umb-api/internal/config"
	"github.com/umb-labs/umb-api/internal/core"
	"github.com/umb-labs/umb-api/internal/health"
)

const readHeaderTimeout = 5 * time.Second

type Config struct {
	ServerConfig  config.ServerConfig
	AppConfig     config.AppConfig
	HealthHandler *health.Handler
	Logger        *slog.Logger
}

type Server struct {
	router *chi.Mux
	srv    *http.Server
	health *health.Handler
	logger *slog.Logger
	app    config.AppConfig
}

func New(cfg Config) *Server {
	router := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router: router,
		health: cfg.HealthHandler,
		logger: logger,
		app:    cfg.AppConfig,
		srv: &http.Server{
			Addr:              cfg.ServerConfig.Address(),
			Handler:           router,
			ReadTimeout:       cfg.ServerConfig.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.ServerConfig.WriteTimeout,
			IdleTimeout:       cfg.ServerConfig.IdleTimeout,
		},
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	return s
}

// Router exposes the mux so callers can install middleware before routes.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// RegisterWelcome mounts the index route. It must run after all middleware
// has been installed on the router.
func (s *Server) RegisterWelcome() {
	s.router.Get("/", s.welcome)
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown fails the health probes, waits drainDelay so load balancers stop
// routing here, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.SetShutdown(true)
	}

	if drainDelay > 0 {
		s.logger.Info("draining connections", "delay", drainDelay.String())
		select {
		case <-time.After(drainDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

type WelcomeResponse struct {
	Message   string            `json:"mensaje"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) welcome(w http.ResponseWriter, _ *http.Request) {
	version := s.app.Version
	if version == "" {
		version = "1.0.0"
	}

	core.OK(w, "", WelcomeResponse{
		Message: "¡Bienvenido a uMB API!",
		Version: version,
		Endpoints: map[string]string{
			"auth":   "/api/auth",
			"users":  "/api/users",
			"bots":   "/api/bots",
			"admin":  "/api/admin",
			"health": "/healthz",
		},
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	core.JSON(w, http.StatusNotFound, core.Envelope{Message: "Ruta no encontrada"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	core.JSON(w, http.StatusMethodNotAllowed, core.Envelope{Message: "Método no permitido"})
}
