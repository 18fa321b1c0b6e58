package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/internal/config"
	"github.com/temcen/teapick/internal/database"
)

type Services struct {
	Recommendation *RecommendationService
	Health         *HealthService
	RateLimit      RateLimiter
	Metrics        *SelectionMetrics
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database, c *catalog.Catalog, reg prometheus.Registerer) *Services {
	selector := SelectorFromConfig(&cfg.Selector, logger)
	metrics := NewSelectionMetrics(reg)
	recommendation := NewRecommendationService(c, selector, metrics, logger)

	var limiter RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = NewRateLimiter(&cfg.RateLimit, db.Redis, logger)
	}

	health := NewHealthService(logger, c, db.Redis, limiter, reg)

	return &Services{
		Recommendation: recommendation,
		Health:         health,
		RateLimit:      limiter,
		Metrics:        metrics,
	}
}

// SelectorFromConfig returns a seeded selector when a seed is configured and
// one backed by the global source otherwise.
func SelectorFromConfig(cfg *config.SelectorConfig, logger *logrus.Logger) *Selector {
	if cfg.Seed == 0 {
		return NewSelector(nil)
	}
	logger.WithField("seed", cfg.Seed).Info("Using seeded random source for selections")
	return NewSeededSelector(cfg.Seed)
}
