package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/services"
	"github.com/temcen/teapick/pkg/models"
)

type RecommendationHandler struct {
	service   services.RecommendationServiceInterface
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewRecommendationHandler(
	service services.RecommendationServiceInterface,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Create picks a drink for the checkbox state in the request body.
func (h *RecommendationHandler) Create(c *gin.Context) {
	var request models.PreferenceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Warn("Invalid JSON in recommendation request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_JSON",
				"message": "Invalid JSON format",
				"details": err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		h.logger.WithError(err).Warn("Recommendation request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Recommendation request validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	rec, err := h.service.Recommend(c.Request.Context(), &request)
	if err != nil {
		h.respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Get is the retry form: it re-runs a selection for ?tags=a,b,c.
func (h *RecommendationHandler) Get(c *gin.Context) {
	requested := models.ParseTagList(c.Query("tags"))

	rec, err := h.service.RecommendTags(c.Request.Context(), requested)
	if err != nil {
		h.respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) respondSelectionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrEmptyCatalog) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{
				"code":    "EMPTY_CATALOG",
				"message": "No drinks are configured",
			},
		})
		return
	}

	h.logger.WithError(err).Error("Failed to generate recommendation")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "RECOMMENDATION_FAILED",
			"message": "Failed to generate recommendation",
		},
	})
}
