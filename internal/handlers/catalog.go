package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/services"
	"github.com/temcen/teapick/pkg/models"
)

type CatalogHandler struct {
	service services.RecommendationServiceInterface
	logger  *logrus.Logger
}

func NewCatalogHandler(service services.RecommendationServiceInterface, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// Preferences lists the checkboxes a client should offer.
func (h *CatalogHandler) Preferences(c *gin.Context) {
	c.JSON(http.StatusOK, models.VocabularyResponse{Tags: h.service.Vocabulary()})
}

// List returns every drink with its formatted distance.
func (h *CatalogHandler) List(c *gin.Context) {
	items := h.service.CatalogView()
	c.JSON(http.StatusOK, models.CatalogResponse{
		Items: items,
		Total: len(items),
	})
}
