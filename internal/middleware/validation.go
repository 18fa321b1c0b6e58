package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/validation"
)

// ValidationMiddleware checks request bodies against JSON schemas before
// they reach the handlers.
type ValidationMiddleware struct {
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewValidationMiddleware(validator *validation.SchemaValidator, logger *logrus.Logger) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// ValidatePreferenceRequest validates POST bodies of the recommendation endpoint.
func (vm *ValidationMiddleware) ValidatePreferenceRequest() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaPreferenceRequest)
}

func (vm *ValidationMiddleware) validateRequestBody(schemaName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if contentType := c.GetHeader("Content-Type"); !strings.Contains(contentType, "application/json") {
			vm.sendError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
				"Content-Type must be application/json", gin.H{"content_type": contentType})
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			vm.sendError(c, http.StatusBadRequest, "BODY_READ_ERROR", "Failed to read request body", err.Error())
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		if len(bytes.TrimSpace(bodyBytes)) == 0 {
			vm.sendError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body is required", nil)
			return
		}

		result := vm.validator.Validate(schemaName, bodyBytes)
		if result.Valid {
			c.Next()
			return
		}

		code := "VALIDATION_ERROR"
		if len(result.Errors) == 1 && result.Errors[0].Code == "INVALID_JSON" {
			code = "INVALID_JSON"
		}

		vm.logger.WithFields(logrus.Fields{
			"schema": schemaName,
			"path":   c.Request.URL.Path,
			"errors": result.Summary(),
		}).Warn("Request body failed schema validation")

		vm.sendError(c, http.StatusBadRequest, code, "Request validation failed", gin.H{
			"validation_errors": result.Errors,
			"field_errors":      result.FieldErrors(),
		})
	}
}

func (vm *ValidationMiddleware) sendError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"details":    details,
			"request_id": c.GetString(RequestIDKey),
		},
	})
}
