package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Catalog        *CatalogHandler
	Recommendation *RecommendationHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Catalog:        NewCatalogHandler(services.Recommendation, logger),
		Recommendation: NewRecommendationHandler(services.Recommendation, logger),
	}
}
