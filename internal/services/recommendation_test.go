package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/pkg/models"
)

func newTestRecommendationService(t *testing.T, c *catalog.Catalog) (*RecommendationService, *SelectionMetrics) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	metrics := NewSelectionMetrics(prometheus.NewRegistry())
	svc := NewRecommendationService(c, NewSeededSelector(11), metrics, logger)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc, metrics
}

func TestRecommendationService_EndToEndExample(t *testing.T) {
	svc, metrics := newTestRecommendationService(t, exampleCatalog())

	req := &models.PreferenceRequest{Preferences: map[string]bool{
		"milk":   true,
		"bubble": true,
		"jelly":  false,
	}}

	rec, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "B", rec.Name)
	assert.True(t, rec.FullMatch)
	assert.Equal(t, "1.0 km", rec.DistanceLabel)
	require.NotNil(t, rec.DistanceM)
	assert.Equal(t, 1000.0, *rec.DistanceM)
	assert.Equal(t, FullMatchNote, rec.Note)
	assert.Equal(t, []string{"bubble", "milk"}, rec.Requested)
	assert.Equal(t, []string{"bubble", "milk"}, rec.Attributes)
	assert.Equal(t, 1, rec.Candidates)
	assert.Equal(t, "/api/v1/recommendations?tags=bubble%2Cmilk", rec.RetryURL)
	assert.NotEmpty(t, rec.SelectionID)
	assert.Equal(t, 2026, rec.GeneratedAt.Year())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.selections.WithLabelValues("full_match")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.catalogItems))
}

func TestRecommendationService_Fallback(t *testing.T) {
	svc, metrics := newTestRecommendationService(t, exampleCatalog())

	rec, err := svc.RecommendTags(context.Background(), models.NewTagSet(models.TagCoconut))
	require.NoError(t, err)

	assert.False(t, rec.FullMatch)
	assert.Equal(t, FallbackNote, rec.Note)
	assert.Equal(t, 2, rec.Candidates)
	assert.Contains(t, []string{"A", "B"}, rec.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.selections.WithLabelValues("fallback")))
}

func TestRecommendationService_UnknownDistance(t *testing.T) {
	c := catalog.New([]models.Item{
		{Name: "Plain tea", Attributes: models.NewTagSet(models.TagJelly)},
	})
	svc, _ := newTestRecommendationService(t, c)

	rec, err := svc.RecommendTags(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Plain tea", rec.Name)
	assert.Nil(t, rec.DistanceM)
	assert.Equal(t, UnknownDistance, rec.DistanceLabel)
	assert.Equal(t, RetryPath, rec.RetryURL)
	assert.Empty(t, rec.Requested)
}

func TestRecommendationService_EmptyCatalog(t *testing.T) {
	svc, metrics := newTestRecommendationService(t, catalog.New(nil))

	_, err := svc.Recommend(context.Background(), &models.PreferenceRequest{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.selectionErrors))
}

func TestRecommendationService_CatalogView(t *testing.T) {
	svc, _ := newTestRecommendationService(t, exampleCatalog())

	views := svc.CatalogView()
	require.Len(t, views, 2)
	assert.Equal(t, "A", views[0].Name)
	assert.Equal(t, "100 m", views[0].DistanceLabel)
	assert.Equal(t, "1.0 km", views[1].DistanceLabel)
	assert.Equal(t, 2, svc.CatalogSize())
	assert.Len(t, svc.Vocabulary(), 8)
}

func TestPreferenceRequest_Tags(t *testing.T) {
	req := &models.PreferenceRequest{Preferences: map[string]bool{
		"Milk":     true,
		" bubble ": true,
		"jelly":    false,
		"matcha":   true,
		"":         true,
	}}

	assert.Equal(t, []string{"bubble", "matcha", "milk"}, req.Tags().Strings())

	var nilReq *models.PreferenceRequest
	assert.Equal(t, 0, nilReq.Tags().Len())
}

func TestRetryURL_RoundTrip(t *testing.T) {
	requested := models.NewTagSet(models.TagFruitTea, models.TagNoCoffee)

	link := RetryURL(requested)
	assert.Equal(t, "/api/v1/recommendations?tags=fruittea%2Cnocoffee", link)
	assert.Equal(t, requested.Strings(), models.ParseTagList("fruittea,nocoffee").Strings())
}

func TestUnknownTags(t *testing.T) {
	assert.Empty(t, UnknownTags(models.NewTagSet(models.TagMilk, models.TagBooba)))
	assert.Equal(t, []string{"matcha", "taro"},
		UnknownTags(models.NewTagSet("taro", models.TagMilk, "matcha")))
	assert.True(t, models.IsKnownTag(models.TagFruitTea))
	assert.False(t, models.IsKnownTag("matcha"))
}

func TestRecommendationService_LogsUnknownTags(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	svc := NewRecommendationService(exampleCatalog(), NewSeededSelector(3), NewSelectionMetrics(prometheus.NewRegistry()), logger)

	rec, err := svc.RecommendTags(context.Background(), models.NewTagSet(models.TagMilk, "matcha"))
	require.NoError(t, err)
	assert.False(t, rec.FullMatch)
	assert.Equal(t, []string{"matcha", "milk"}, rec.Requested)

	var found bool
	for _, entry := range hook.AllEntries() {
		if unknown, ok := entry.Data["unknown_tags"]; ok {
			found = true
			assert.Equal(t, logrus.DebugLevel, entry.Level)
			assert.Equal(t, []string{"matcha"}, unknown)
		}
	}
	assert.True(t, found)

	hook.Reset()
	_, err = svc.RecommendTags(context.Background(), models.NewTagSet(models.TagMilk))
	require.NoError(t, err)
	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Data, "unknown_tags")
	}
}
