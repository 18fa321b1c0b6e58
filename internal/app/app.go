package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/internal/config"
	"github.com/temcen/teapick/internal/database"
	"github.com/temcen/teapick/internal/docs"
	"github.com/temcen/teapick/internal/handlers"
	"github.com/temcen/teapick/internal/middleware"
	"github.com/temcen/teapick/internal/services"
	"github.com/temcen/teapick/internal/validation"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	registry *prometheus.Registry
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	logger := SetupLogger(&cfg.Logging)

	c, err := catalog.LoadOrDefault(cfg.Catalog.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return NewWithCatalog(cfg, logger, c)
}

// NewWithCatalog builds the application around an already loaded catalog.
func NewWithCatalog(cfg *config.Config, logger *logrus.Logger, c *catalog.Catalog) (*App, error) {
	app := &App{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	if c.Len() == 0 {
		logger.Warn("Catalog is empty, every recommendation request will fail")
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.services = services.New(cfg, logger, db, c, app.registry)
	app.handlers = handlers.New(logger, app.services)

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"catalog_items": c.Len(),
		"rate_limit":    cfg.RateLimit.Enabled,
	}).Info("Application initialized")

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Logger() *logrus.Logger {
	return a.logger
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

// SetupLogger builds the process logger from the logging section.
func SetupLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() error {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(&a.config.Security.CORS))
	if a.config.Server.Compression {
		router.Use(middleware.Compression(gzip.DefaultCompression, a.config.Monitoring.MetricsPath))
	}

	router.GET("/health", a.handlers.Health.Check)

	if a.config.Monitoring.Enabled {
		router.GET(a.config.Monitoring.MetricsPath, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/preferences", a.handlers.Catalog.Preferences)
		api.GET("/catalog", a.handlers.Catalog.List)

		validator := middleware.NewValidationMiddleware(validation.Default(), a.logger)

		recommendations := api.Group("/recommendations")
		recommendations.Use(middleware.RateLimit(a.services.RateLimit, a.logger))
		{
			recommendations.POST("", validator.ValidatePreferenceRequest(), a.handlers.Recommendation.Create)
			recommendations.GET("", a.handlers.Recommendation.Get)
		}
	}

	if a.config.Server.Docs {
		swagger, err := docs.NewSwaggerHandler(docs.GetSwaggerConfig())
		if err != nil {
			return err
		}
		swagger.RegisterRoutes(router)
	}

	a.router = router
	return nil
}
