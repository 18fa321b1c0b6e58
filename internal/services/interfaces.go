package services

import (
	"context"

	"github.com/temcen/teapick/pkg/models"
)

// RecommendationServiceInterface defines the operations the presentation
// layers need from the recommendation engine.
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req *models.PreferenceRequest) (*models.Recommendation, error)
	RecommendTags(ctx context.Context, requested models.TagSet) (*models.Recommendation, error)
	Vocabulary() []models.TagInfo
	CatalogView() []models.ItemView
}

// RateLimiter decides whether a client may make another request.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, *models.RateLimitInfo, error)
	Backend() string
}
