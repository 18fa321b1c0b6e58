package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// Compression gzips responses for clients that accept it. Paths in skip are
// passed through untouched (promhttp negotiates its own encoding).
func Compression(level int, skip ...string) gin.HandlerFunc {
	pool := sync.Pool{
		New: func() interface{} {
			gz, err := gzip.NewWriterLevel(nil, level)
			if err != nil {
				gz, _ = gzip.NewWriterLevel(nil, gzip.DefaultCompression)
			}
			return gz
		},
	}

	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") ||
			c.Request.Method == http.MethodHead ||
			shouldSkipCompression(c.Request.URL.Path, skip) {
			c.Next()
			return
		}

		orig := c.Writer
		gz := pool.Get().(*gzip.Writer)
		gz.Reset(orig)

		writer := &gzipWriter{ResponseWriter: orig, gz: gz}
		c.Writer = writer
		c.Header("Vary", "Accept-Encoding")

		// Runs before an outer Recovery writes its error body, so the
		// writer must be unwrapped before gz goes back to the pool.
		defer func() {
			c.Writer = orig
			if writer.started {
				gz.Close()
			}
			writer.gz = nil
			gz.Reset(nil)
			pool.Put(gz)
		}()

		c.Next()
	}
}

// gzipWriter switches the response to gzip on the first body write.
type gzipWriter struct {
	gin.ResponseWriter
	gz      *gzip.Writer
	started bool
}

func (g *gzipWriter) start() {
	if g.started {
		return
	}
	g.started = true
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")
}

func (g *gzipWriter) WriteHeader(code int) {
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if g.gz == nil {
		return g.ResponseWriter.Write(data)
	}
	g.start()
	return g.gz.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func shouldSkipCompression(path string, skip []string) bool {
	for _, prefix := range skip {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
