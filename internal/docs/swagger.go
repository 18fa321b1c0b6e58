package docs

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed templates/* openapi.yaml
var docsFS embed.FS

type SwaggerConfig struct {
	Title   string
	Version string
	BaseURL string
}

// SwaggerHandler serves the OpenAPI document and a Swagger UI page.
type SwaggerHandler struct {
	config   SwaggerConfig
	document []byte
	doc      map[string]interface{}
	tmpl     *template.Template
}

func NewSwaggerHandler(config SwaggerConfig) (*SwaggerHandler, error) {
	document, err := docsFS.ReadFile("openapi.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	tmpl, err := template.ParseFS(docsFS, "templates/swagger-ui.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	return &SwaggerHandler{
		config:   config,
		document: document,
		doc:      doc,
		tmpl:     tmpl,
	}, nil
}

func (sh *SwaggerHandler) RegisterRoutes(router *gin.Engine) {
	docs := router.Group(sh.config.BaseURL)
	{
		docs.GET("/", sh.SwaggerUI)
		docs.GET("/openapi.yaml", sh.OpenAPISpec)
		docs.GET("/openapi.json", sh.OpenAPISpecJSON)
	}
}

func (sh *SwaggerHandler) SwaggerUI(c *gin.Context) {
	data := struct {
		Title   string
		Version string
		SpecURL string
	}{
		Title:   sh.config.Title,
		Version: sh.config.Version,
		SpecURL: sh.config.BaseURL + "/openapi.json",
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := sh.tmpl.Execute(c.Writer, data); err != nil {
		c.Error(err)
	}
}

func (sh *SwaggerHandler) OpenAPISpec(c *gin.Context) {
	c.Data(http.StatusOK, "application/x-yaml", sh.document)
}

func (sh *SwaggerHandler) OpenAPISpecJSON(c *gin.Context) {
	c.JSON(http.StatusOK, sh.doc)
}

// Paths lists the documented routes, for checking the document against the router.
func (sh *SwaggerHandler) Paths() []string {
	paths, _ := sh.doc["paths"].(map[string]interface{})
	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	return out
}

func GetSwaggerConfig() SwaggerConfig {
	return SwaggerConfig{
		Title:   "teapick API",
		Version: "1.0.0",
		BaseURL: "/docs",
	}
}
