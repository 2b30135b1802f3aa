package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"onboardapi/docs"
	"onboardapi/internal/config"
	"onboardapi/internal/database"
	"onboardapi/internal/database/migration"
	"onboardapi/internal/forwarder"
	handlers "onboardapi/internal/http/handler"
	"onboardapi/internal/http/middleware"
	"onboardapi/internal/logging"
	"onboardapi/internal/otel"
	"onboardapi/internal/repository/postgres"
	"onboardapi/internal/service"
	"onboardapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Onboarding API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// A storage backend that cannot start leaves the API up; storage calls then
	// fail with 503 and /api/upload/health reports why.
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Warn("storage backend unavailable", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	resolver := service.NewFolderResolver(store, service.ResolverConfig{
		RootFolderID:   cfg.Storage.GoogleDrive.RootFolderID,
		RootFolderName: cfg.Storage.RootFolder,
		SubfolderName:  cfg.Storage.Subfolder,
	}, log, metrics)

	onboardingSvc := service.NewOnboardingService(service.OnboardingDeps{
		Storage:   store,
		Backend:   cfg.Storage.Backend,
		Resolver:  resolver,
		Organizer: service.NewFileOrganizer(store, log, metrics),
		Repo:      postgres.NewSubmissionPostgres(db),
		Forwarder: forwarder.New(cfg.Forwarder, log),
		Policy: service.UploadPolicy{
			MaxFileSize:  cfg.Upload.MaxFileSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		Logger: log,
	})

	app := fiber.New(fiber.Config{
		AppName:      "onboardapi",
		BodyLimit:    cfg.Upload.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	// RequestID runs first so every later middleware and the error handler can see it.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
	}))
	app.Use(compress.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:      db,
		Service: onboardingSvc,
		Env:     cfg.Env,
	})

	// Swagger UI with dynamic host and scheme
	docs.SwaggerInfo.Host = cfg.AppHost
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		if host := c.Get("Host"); host != "" {
			docs.SwaggerInfo.Host = host
		}
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info("server listening", zap.String("addr", addr), zap.String("storage_backend", cfg.Storage.Backend))
		if err := app.Listen(addr); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(sctx); err != nil {
		log.Error("tracing shutdown", zap.Error(err))
	}
}
