package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/database"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/logging"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/routes"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type stores struct {
	users repository.UserStore
	jobs  repository.JobStore
	apps  repository.ApplicationStore
}

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage
	var (
		db    *gorm.DB
		repos stores
		ping  handlers.PingFunc
		pgLog *logging.PGHandler
	)
	switch cfg.Storage {
	case "postgres":
		var err error
		if db, err = database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		repos = stores{
			users: repository.NewUserRepository(db),
			jobs:  repository.NewJobRepository(db),
			apps:  repository.NewApplicationRepository(db),
		}
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }

		// PostgreSQL log handler (ERROR+ async batch) and 30-day retention
		pgLog = logging.NewPGHandler(db)
		logging.WithSink(os.Stdout, pgLog)
		logging.StartCleanup(ctx, db)
	case "memory":
		store := memory.New()
		repos = stores{users: store.Users(), jobs: store.Jobs(), apps: store.Applications()}
		slog.Warn("using in-memory storage; data is lost on restart")
	}

	// Rate limit storage
	var (
		limitStorage fiber.Storage
		limitPing    handlers.PingFunc
	)
	if cfg.RedisURL != "" {
		redisStorage, err := ratelimit.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisStorage.Close()
		limitStorage = redisStorage
		limitPing = redisStorage.Ping
		slog.Info("rate limits stored in redis")
	}

	// Services
	tokenService := services.NewTokenService(cfg)
	authService := services.NewAuthService(repos.users, services.NewPasswordHasher(cfg.BcryptCost), tokenService)
	applicationService := services.NewApplicationService(repos.apps, repos.jobs)
	jobService := services.NewJobService(repos.jobs, applicationService)
	userService := services.NewUserService(repos.users, repos.jobs, repos.apps)
	statsService := services.NewStatsService(repos.users, repos.jobs, repos.apps)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, tokenService, limitStorage, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, tokenService, cfg.IsProduction()),
		Jobs:         handlers.NewJobHandler(jobService, statsService),
		Applications: handlers.NewApplicationHandler(applicationService),
		Users:        handlers.NewUserHandler(userService),
		Admin:        handlers.NewAdminHandler(userService, jobService, applicationService, statsService),
		Health:       handlers.NewHealthHandler(ping, cfg.Storage).WithRateLimitStore(limitPing),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.Storage, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	if pgLog != nil {
		pgLog.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.Fail(message))
}
