package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDocsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, err := NewSwaggerHandler(GetSwaggerConfig())
	require.NoError(t, err)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func TestSwaggerHandler_Routes(t *testing.T) {
	router := setupDocsRouter(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/docs/", contentType: "text/html", contains: "/docs/openapi.json"},
		{path: "/docs/openapi.yaml", contentType: "application/x-yaml", contains: "openapi: 3.0.3"},
		{path: "/docs/openapi.json", contentType: "application/json", contains: `"openapi":"3.0.3"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestSwaggerHandler_DocumentsAPI(t *testing.T) {
	handler, err := NewSwaggerHandler(GetSwaggerConfig())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"/health",
		"/api/v1/preferences",
		"/api/v1/catalog",
		"/api/v1/recommendations",
	}, handler.Paths())

	router := setupDocsRouter(t)
	req, _ := http.NewRequest("GET", "/docs/openapi.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	info := doc["info"].(map[string]interface{})
	assert.Equal(t, "teapick API", info["title"])
}
