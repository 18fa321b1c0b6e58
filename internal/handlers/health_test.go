package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/teapick/internal/services"
)

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) *services.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(*services.HealthStatus)
}

func TestHealthHandler_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		status         *services.HealthStatus
		expectedStatus int
		expectedItems  string
	}{
		{
			name: "healthy",
			status: &services.HealthStatus{
				Status:   services.HealthStatusHealthy,
				Services: map[string]string{"catalog": services.HealthStatusHealthy},
				Details:  map[string]interface{}{"catalog_items": 7, "rate_limit_backend": "memory"},
			},
			expectedStatus: http.StatusOK,
			expectedItems:  "7",
		},
		{
			name: "redis down only degrades",
			status: &services.HealthStatus{
				Status:      services.HealthStatusDegraded,
				Services:    map[string]string{"catalog": services.HealthStatusHealthy, "redis": services.HealthStatusUnhealthy},
				NonCritical: []string{"redis"},
				Details:     map[string]interface{}{"catalog_items": 7},
			},
			expectedStatus: http.StatusOK,
			expectedItems:  "7",
		},
		{
			name: "empty catalog",
			status: &services.HealthStatus{
				Status:   services.HealthStatusUnhealthy,
				Services: map[string]string{"catalog": services.HealthStatusUnhealthy},
				Critical: []string{"catalog"},
				Details:  map[string]interface{}{"catalog_items": 0},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedItems:  "0",
		},
		{
			name:           "unknown status",
			status:         &services.HealthStatus{Status: "confused"},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.status.Timestamp = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
			checker := new(MockHealthChecker)
			checker.On("CheckHealth", mock.Anything).Return(tt.status)

			router := gin.New()
			router.GET("/health", NewHealthHandler(testLogger(), checker).Check)

			req, _ := http.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedItems, w.Header().Get(CatalogItemsHeader))
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			var response services.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.status.Status, response.Status)

			checker.AssertExpectations(t)
		})
	}
}
