package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	SchemaCatalog           = "catalog"
	SchemaPreferenceRequest = "preference-request"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemaFiles = map[string]string{
	SchemaCatalog:           "catalog.json",
	SchemaPreferenceRequest: "preference-request.json",
}

// SchemaValidator holds compiled JSON schemas by name.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Default returns a validator with the built-in schemas loaded. It panics if
// an embedded schema does not compile.
func Default() *SchemaValidator {
	sv := NewSchemaValidator()
	if err := sv.LoadSchemaFromFS(schemaFS, "schemas"); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	return sv
}

// LoadSchemaFromFS compiles every known schema found under schemaDir.
func (sv *SchemaValidator) LoadSchemaFromFS(fsys fs.FS, schemaDir string) error {
	for name, filename := range schemaFiles {
		schemaPath := path.Join(schemaDir, filename)

		schemaBytes, err := fs.ReadFile(fsys, schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", schemaPath, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if err != nil {
			return fmt.Errorf("failed to load schema %s: %w", name, err)
		}

		sv.schemas[name] = schema
	}

	return nil
}

// Validate checks data against the named schema. Strings and byte slices
// are treated as raw JSON; anything else is marshalled first.
func (sv *SchemaValidator) Validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return invalid(ValidationError{
			Field:   "schema",
			Message: fmt.Sprintf("Schema '%s' not found", schemaName),
			Code:    "SCHEMA_NOT_FOUND",
		})
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return invalid(ValidationError{
				Field:   "data",
				Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
				Code:    "JSON_MARSHAL_ERROR",
			})
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return invalid(ValidationError{
			Field:   "document",
			Message: err.Error(),
			Code:    "INVALID_JSON",
		})
	}

	validationResult := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		validationResult.Errors = append(validationResult.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    "VALIDATION_ERROR",
			Value:   desc.Value(),
		})
	}

	return validationResult
}

// SchemaExists reports whether name has been loaded.
func (sv *SchemaValidator) SchemaExists(name string) bool {
	_, exists := sv.schemas[name]
	return exists
}

// AvailableSchemas returns the loaded schema names, sorted.
func (sv *SchemaValidator) AvailableSchemas() []string {
	names := make([]string, 0, len(sv.schemas))
	for name := range sv.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

func invalid(errs ...ValidationError) *ValidationResult {
	return &ValidationResult{Valid: false, Errors: errs}
}

// Summary joins every error as "field: message".
func (vr *ValidationResult) Summary() string {
	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// FieldErrors groups messages by field for API clients.
func (vr *ValidationResult) FieldErrors() map[string][]string {
	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}
	return fieldErrors
}
