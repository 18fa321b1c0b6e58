package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Compression(gzip.BestSpeed, "/metrics"))
	payload := strings.Repeat("bubble milk tea ", 200)
	router.GET("/catalog", func(c *gin.Context) { c.String(http.StatusOK, payload) })
	router.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, payload) })
	router.GET("/empty", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func TestCompression(t *testing.T) {
	router := newCompressionRouter()

	req, _ := http.NewRequest("GET", "/catalog", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	reader, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("bubble milk tea ", 200), string(body))
}

func TestCompression_PassThrough(t *testing.T) {
	router := newCompressionRouter()

	tests := []struct {
		name     string
		path     string
		encoding string
	}{
		{name: "client without gzip", path: "/catalog", encoding: ""},
		{name: "skipped path", path: "/metrics", encoding: "gzip"},
		{name: "no body", path: "/empty", encoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			if tt.encoding != "" {
				req.Header.Set("Accept-Encoding", tt.encoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Empty(t, w.Header().Get("Content-Encoding"))
			if tt.path != "/empty" {
				assert.True(t, strings.HasPrefix(w.Body.String(), "bubble milk tea"))
			} else {
				assert.Empty(t, w.Body.Bytes())
			}
		})
	}
}

func TestCompression_PanicRecovered(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery(testLogger()))
	router.Use(Compression(gzip.BestSpeed))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })
	router.GET("/catalog", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("tea jelly ", 100))
	})

	req, _ := http.NewRequest("GET", "/boom", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	require.NotPanics(t, func() { router.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")

	// The pooled writer is still usable by the next request.
	req, _ = http.NewRequest("GET", "/catalog", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("tea jelly ", 100), string(body))
}
