package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/services"
)

// CatalogItemsHeader lets probes read the catalog size without parsing the body.
const CatalogItemsHeader = "X-Catalog-Items"

type HealthChecker interface {
	CheckHealth(ctx context.Context) *services.HealthStatus
}

type HealthHandler struct {
	logger  *logrus.Logger
	checker HealthChecker
}

func NewHealthHandler(logger *logrus.Logger, checker HealthChecker) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		checker: checker,
	}
}

// Check reports 200 while drinks can be recommended (a Redis outage only
// degrades rate limiting) and 503 once the catalog is unusable.
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.checker.CheckHealth(c.Request.Context())

	httpStatus := healthHTTPStatus(status.Status)
	if httpStatus != http.StatusOK || status.Status == services.HealthStatusDegraded {
		h.logger.WithFields(logrus.Fields{
			"status":                status.Status,
			"critical_failures":     status.Critical,
			"non_critical_failures": status.NonCritical,
			"catalog_items":         status.Details["catalog_items"],
		}).Warn("Health check is not fully healthy")
	}

	if items, ok := status.Details["catalog_items"].(int); ok {
		c.Header(CatalogItemsHeader, strconv.Itoa(items))
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(httpStatus, status)
}

func healthHTTPStatus(status string) int {
	switch status {
	case services.HealthStatusHealthy, services.HealthStatusDegraded:
		return http.StatusOK
	case services.HealthStatusUnhealthy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
