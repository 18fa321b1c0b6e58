package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/pkg/models"
)

const (
	FullMatchNote = "Matches every selected preference"
	FallbackNote  = "Nothing matched every preference, picked one at random"

	// RetryPath is where a recommendation can be re-requested with the
	// same tag set.
	RetryPath = "/api/v1/recommendations"
)

// RecommendationService turns checkbox state into a drink recommendation.
type RecommendationService struct {
	catalog  *catalog.Catalog
	selector *Selector
	metrics  *SelectionMetrics
	logger   *logrus.Logger
	now      func() time.Time
}

func NewRecommendationService(
	c *catalog.Catalog,
	selector *Selector,
	metrics *SelectionMetrics,
	logger *logrus.Logger,
) *RecommendationService {
	metrics.SetCatalogSize(c.Len())

	return &RecommendationService{
		catalog:  c,
		selector: selector,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Recommend picks a drink for the checked preferences in req.
func (s *RecommendationService) Recommend(ctx context.Context, req *models.PreferenceRequest) (*models.Recommendation, error) {
	return s.RecommendTags(ctx, req.Tags())
}

// RecommendTags picks a drink for an explicit tag set. Calling it again with
// the same set is the "retry" action.
func (s *RecommendationService) RecommendTags(ctx context.Context, requested models.TagSet) (*models.Recommendation, error) {
	if requested == nil {
		requested = models.NewTagSet()
	}
	if unknown := UnknownTags(requested); len(unknown) > 0 {
		s.logger.WithField("unknown_tags", unknown).Debug("Request names tags outside the vocabulary, no drink can match them")
	}

	start := s.now()
	result, err := s.selector.Select(s.catalog, requested)
	if err != nil {
		s.metrics.ObserveError()
		s.logger.WithError(err).WithField("requested", requested.Strings()).Error("Failed to select drink")
		return nil, err
	}
	s.metrics.ObserveSelection(result.WasFullMatch, result.CandidateCount, s.now().Sub(start))

	rec := s.buildRecommendation(result, requested)

	s.logger.WithFields(logrus.Fields{
		"selection_id": rec.SelectionID,
		"drink":        rec.Name,
		"full_match":   rec.FullMatch,
		"candidates":   rec.Candidates,
		"requested":    rec.Requested,
	}).Debug("Drink selected")

	return rec, nil
}

// UnknownTags returns the requested tags that are not in the vocabulary, sorted.
func UnknownTags(requested models.TagSet) []string {
	var unknown []string
	for _, t := range requested.Sorted() {
		if !models.IsKnownTag(t) {
			unknown = append(unknown, string(t))
		}
	}
	return unknown
}

func (s *RecommendationService) buildRecommendation(result *models.SelectionResult, requested models.TagSet) *models.Recommendation {
	note := FallbackNote
	if result.WasFullMatch {
		note = FullMatchNote
	}

	rec := &models.Recommendation{
		SelectionID:   uuid.New(),
		Name:          result.Item.Name,
		Attributes:    result.Item.Attributes.Strings(),
		DistanceLabel: ItemDistanceLabel(result.Item),
		FullMatch:     result.WasFullMatch,
		Note:          note,
		Requested:     requested.Strings(),
		Candidates:    result.CandidateCount,
		Probability:   result.Probability,
		RetryURL:      RetryURL(requested),
		GeneratedAt:   s.now().UTC(),
	}
	if d, ok := result.Item.DistanceOrUnknown(); ok {
		rec.DistanceM = models.Meters(d)
	}
	return rec
}

// Vocabulary lists the preference boxes a caller can check.
func (s *RecommendationService) Vocabulary() []models.TagInfo {
	return models.Vocabulary()
}

// CatalogView lists every drink with its formatted distance.
func (s *RecommendationService) CatalogView() []models.ItemView {
	items := s.catalog.Items()
	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ItemView{
			Name:          item.Name,
			Attributes:    item.Attributes.Strings(),
			DistanceM:     item.Distance,
			DistanceLabel: ItemDistanceLabel(item),
		})
	}
	return views
}

// CatalogSize returns the number of drinks available.
func (s *RecommendationService) CatalogSize() int {
	return s.catalog.Len()
}

// RetryURL builds the GET link that re-runs a selection with requested.
func RetryURL(requested models.TagSet) string {
	if requested.Len() == 0 {
		return RetryPath
	}
	q := url.Values{}
	q.Set("tags", strings.Join(requested.Strings(), ","))
	return RetryPath + "?" + q.Encode()
}
