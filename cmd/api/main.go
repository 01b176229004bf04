// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/umb-labs/umb-api/internal/admin"
	"github.com/umb-labs/umb-api/internal/auth"
	"github.com/umb-labs/umb-api/internal/bot"
	"github.com/umb-labs/umb-api/internal/config"
	"github.com/umb-labs/umb-api/internal/core"
	"github.com/umb-labs/umb-api/internal/health"
	"github.com/umb-labs/umb-api/internal/middleware"
	"github.com/umb-labs/umb-api/internal/migrate"
	"github.com/umb-labs/umb-api/internal/server"
	"github.com/umb-labs/umb-api/internal/user"
)

const (
	drainDelay       = 5 * time.Second
	metricsNamespace = "umb"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateCmd := flag.String("migrate", "", "run migrations (up|down) and exit")
	flag.Parse()

	if err := run(*configPath, *migrateCmd); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath, migrateCmd string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if telemetry.Exporting {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database, cfg.Otel.ServiceName)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if migrateCmd != "" {
		defer db.Close() //nolint:errcheck // process is exiting
		return runMigrations(ctx, db, logger, migrateCmd)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, logger, "up"); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokenManager, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"expires_in", tokenManager.ExpiresIn().String(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	botRepo := bot.NewRepository(db.DB)
	botSvc := bot.NewService(botRepo)
	botHandler := bot.NewHandler(botSvc)

	authSvc := auth.NewService(tokenManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)
	healthHandler.SetReady(false)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		CountUsers: userSvc.CountUsers,
		CountBots:  botSvc.CountBots,
		Version:    cfg.App.Version,
	})

	metrics := middleware.NewMetrics(metricsNamespace)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		AppConfig:     cfg.App,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Handler)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			KeyPrefix: redis.KeyPrefix,
			FailOpen:  cfg.RateLimit.FailOpen,
			OnLimited: metrics.RecordRateLimited,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS, cfg.IsDevelopment()))
	router.Use(middleware.ErrorDetail(cfg.IsDevelopment()))

	srv.RegisterWelcome()
	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Exporter())
	}

	authenticator := middleware.Authenticator(tokenManager, userSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		botHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	healthHandler.SetReady(true)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func runMigrations(
	ctx context.Context,
	db *core.Database,
	logger *slog.Logger,
	direction string,
) error {
	runner, err := migrate.New(db.DB.DB, logger)
	if err != nil {
		return err
	}

	switch direction {
	case "up":
		return runner.Up(ctx)
	case "down":
		return runner.Down(ctx)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
